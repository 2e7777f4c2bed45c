package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpserver "voltpoint/internal/http"
	"voltpoint/internal/http/handlers"
	"voltpoint/internal/http/middleware"
	"voltpoint/internal/models"
	"voltpoint/internal/repository"
	"voltpoint/internal/service"
	"voltpoint/internal/ws"
)

type memStationRepo struct {
	mu       sync.Mutex
	nextID   int64
	stations map[int64]models.Station
}

func (m *memStationRepo) Create(ctx context.Context, station *models.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	station.ID = m.nextID
	station.CreatedAt = time.Now().UTC()
	station.UpdatedAt = station.CreatedAt
	m.stations[station.ID] = *station
	return nil
}

func (m *memStationRepo) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	station, ok := m.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	return &station, nil
}

func (m *memStationRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stations []models.Station
	for _, station := range m.stations {
		if station.OwnerID == ownerID {
			stations = append(stations, station)
		}
	}
	return stations, nil
}

func (m *memStationRepo) Update(ctx context.Context, station *models.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stations[station.ID]; !ok {
		return repository.ErrStationNotFound
	}
	station.UpdatedAt = time.Now().UTC()
	m.stations[station.ID] = *station
	return nil
}

func (m *memStationRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stations[id]; !ok {
		return repository.ErrStationNotFound
	}
	delete(m.stations, id)
	return nil
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.User
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.Email] = *user
	return nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

type noopHasher struct{}

func (noopHasher) Hash(password string) (string, error) { return "#" + password, nil }

func (noopHasher) Compare(hash, password string) error {
	if hash != "#"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *service.TokenService) {
	t.Helper()
	logger := zap.NewNop()
	tokens := service.NewTokenService("router-test-secret", time.Hour)
	hub := ws.NewHub(time.Minute, logger)

	stationsSvc := service.NewStationsService(&memStationRepo{stations: make(map[int64]models.Station)}, nil, hub, logger)
	authSvc := service.NewAuthService(&memUserRepo{users: make(map[string]models.User)}, noopHasher{}, tokens, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(authSvc, logger),
		StationsHandlers: handlers.NewStationsHandlers(stationsSvc, logger),
		StationEvents:    handlers.NewStationEventsHandler(hub, logger),
		HealthHandler:    handlers.NewHealthHandler(),
	}, middleware.Auth(tokens))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, tokens
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestStationRoutesRequireAuthentication(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/stations", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/stations", "", map[string]any{"name": "x"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStationLifecycleScenario(t *testing.T) {
	server, tokens := newTestServer(t)
	token, err := tokens.GenerateToken(1)
	require.NoError(t, err)

	// Create with status omitted: defaults to active.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/stations", token, map[string]any{
		"name":          "Lot A",
		"location":      map[string]any{"latitude": 40.1, "longitude": -73.9},
		"powerOutput":   150,
		"connectorType": "CCS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Station
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, models.StationStatusActive, created.Status)
	require.Equal(t, 150.0, created.PowerOutput)

	stationURL := fmt.Sprintf("%s/api/stations/%d", server.URL, created.ID)

	// Partial update flips only the status.
	resp, body = doJSON(t, http.MethodPut, stationURL, token, map[string]any{"status": "inactive"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Station
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, models.StationStatusInactive, updated.Status)
	require.Equal(t, created.Name, updated.Name)
	require.Equal(t, created.Location, updated.Location)
	require.Equal(t, created.PowerOutput, updated.PowerOutput)
	require.Equal(t, created.ConnectorType, updated.ConnectorType)

	resp, body = doJSON(t, http.MethodDelete, stationURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"message":"Station removed"}`, string(body))

	resp, _ = doJSON(t, http.MethodGet, stationURL, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForeignStationReturnsNotAuthorized(t *testing.T) {
	server, tokens := newTestServer(t)
	ownerToken, err := tokens.GenerateToken(1)
	require.NoError(t, err)
	otherToken, err := tokens.GenerateToken(2)
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/stations", ownerToken, map[string]any{
		"name":          "Lot A",
		"location":      map[string]any{"latitude": 40.1, "longitude": -73.9},
		"powerOutput":   150,
		"connectorType": "CCS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Station
	require.NoError(t, json.Unmarshal(body, &created))
	stationURL := fmt.Sprintf("%s/api/stations/%d", server.URL, created.ID)

	resp, body = doJSON(t, http.MethodGet, stationURL, otherToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotContains(t, string(body), "Lot A")

	resp, _ = doJSON(t, http.MethodPut, stationURL, otherToken, map[string]any{"name": "Mine now"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, stationURL, otherToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Other callers never see the record in their list either.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/stations", otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))
}

func TestCreateValidationListsEveryViolation(t *testing.T) {
	server, tokens := newTestServer(t)
	token, err := tokens.GenerateToken(1)
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/stations", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t,
		"Please add a name, Please add latitude, Please add longitude, Please add connector type",
		out.Message,
	)
}

func TestSignupAndLoginFlow(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signedUp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &signedUp))
	require.NotEmpty(t, signedUp.Token)

	// The issued token works against station routes.
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/stations", signedUp.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
