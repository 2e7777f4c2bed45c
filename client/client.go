// Package client provides a Go consumer of the voltpoint API: a typed HTTP
// client and an in-memory station store with derived filtered views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"voltpoint/internal/models"
)

// APIError carries the server's status code and message body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client is a thin typed wrapper over the HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token used for station requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Credentials for login; RegisterInput additionally carries the display name.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the server's auth response.
type AuthResult struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", input, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// StationInput is the mutable field set sent on create and update. Nil fields
// are omitted, which on update leaves them unchanged.
type StationInput struct {
	Name          *string          `json:"name,omitempty"`
	Location      *models.Location `json:"location,omitempty"`
	Status        *string          `json:"status,omitempty"`
	PowerOutput   *float64         `json:"powerOutput,omitempty"`
	ConnectorType *string          `json:"connectorType,omitempty"`
}

// ListStations fetches the caller's stations.
func (c *Client) ListStations(ctx context.Context) ([]models.Station, error) {
	var out []models.Station
	if err := c.do(ctx, http.MethodGet, "/api/stations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStation fetches one station by id.
func (c *Client) GetStation(ctx context.Context, id int64) (*models.Station, error) {
	var out models.Station
	if err := c.do(ctx, http.MethodGet, "/api/stations/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStation creates a station.
func (c *Client) CreateStation(ctx context.Context, input StationInput) (*models.Station, error) {
	var out models.Station
	if err := c.do(ctx, http.MethodPost, "/api/stations", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStation applies a partial update.
func (c *Client) UpdateStation(ctx context.Context, id int64, input StationInput) (*models.Station, error) {
	var out models.Station
	if err := c.do(ctx, http.MethodPut, "/api/stations/"+strconv.FormatInt(id, 10), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStation removes a station.
func (c *Client) DeleteStation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/stations/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
