package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"voltpoint/internal/http/middleware"
	"voltpoint/internal/service"
)

// StationsHandlers exposes station CRUD over HTTP.
type StationsHandlers struct {
	svc    *service.StationsService
	logger *zap.Logger
}

// NewStationsHandlers builds the handler set.
func NewStationsHandlers(svc *service.StationsService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{svc: svc, logger: logger}
}

// locationPayload mirrors the nested location object of the JSON body.
type locationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	stations, err := h.svc.List(r.Context(), callerID)
	if err != nil {
		h.serverError(w, "list stations", err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	id, err := stationID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Station not found")
		return
	}

	station, err := h.svc.GetByID(r.Context(), callerID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeMessage(w, http.StatusNotFound, "Station not found")
		case errors.Is(err, service.ErrNotAuthorized):
			writeMessage(w, http.StatusUnauthorized, "Not authorized to access this station")
		default:
			h.serverError(w, "get station", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		Name          string          `json:"name"`
		Location      locationPayload `json:"location"`
		Status        string          `json:"status"`
		PowerOutput   *float64        `json:"powerOutput"`
		ConnectorType string          `json:"connectorType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input := service.CreateStationInput{
		Name:          req.Name,
		Latitude:      req.Location.Latitude,
		Longitude:     req.Location.Longitude,
		Status:        req.Status,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
	}
	if req.Location.Address != nil {
		input.Address = *req.Location.Address
	}

	station, err := h.svc.Create(r.Context(), callerID, input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeMessage(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.serverError(w, "create station", err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Update handles PUT /api/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	id, err := stationID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Station not found")
		return
	}

	var req struct {
		Name          *string          `json:"name"`
		Location      *locationPayload `json:"location"`
		Status        *string          `json:"status"`
		PowerOutput   *float64         `json:"powerOutput"`
		ConnectorType *string          `json:"connectorType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input := service.UpdateStationInput{
		Name:          req.Name,
		Status:        req.Status,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
	}
	if req.Location != nil {
		input.Latitude = req.Location.Latitude
		input.Longitude = req.Location.Longitude
		input.Address = req.Location.Address
	}

	station, err := h.svc.Update(r.Context(), callerID, id, input)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeMessage(w, http.StatusNotFound, "Station not found")
		case errors.Is(err, service.ErrNotAuthorized):
			writeMessage(w, http.StatusUnauthorized, "Not authorized to update this station")
		case errors.As(err, &verr):
			writeMessage(w, http.StatusBadRequest, verr.Error())
		default:
			h.serverError(w, "update station", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	id, err := stationID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Station not found")
		return
	}

	if err := h.svc.Delete(r.Context(), callerID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeMessage(w, http.StatusNotFound, "Station not found")
		case errors.Is(err, service.ErrNotAuthorized):
			writeMessage(w, http.StatusUnauthorized, "Not authorized to delete this station")
		default:
			h.serverError(w, "delete station", err)
		}
		return
	}
	writeMessage(w, http.StatusOK, "Station removed")
}

func (h *StationsHandlers) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("station request failed", zap.String("op", op), zap.Error(err))
	writeMessage(w, http.StatusInternalServerError, "Server error")
}

func stationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
