package client

import (
	"context"
	"sync"

	"voltpoint/internal/models"
)

// Fixed user-facing failure messages, one per remote operation.
const (
	msgFetchFailed  = "Failed to fetch charging stations"
	msgGetFailed    = "Failed to fetch charging station"
	msgCreateFailed = "Failed to create charging station"
	msgUpdateFailed = "Failed to update charging station"
	msgDeleteFailed = "Failed to delete charging station"
)

// Filters updates the store's view filters. Nil fields are left as they are;
// a zero value (empty string, 0) switches that filter off.
type Filters struct {
	Status        *string
	MinPower      *float64
	ConnectorType *string
}

// StationsStore holds the caller's station list and derives filtered views
// from it. Every remote operation toggles the loading flag and records a
// fixed error message on failure. Fetch and Get swallow their errors after
// recording them; Create, Update and Delete return them to the caller.
type StationsStore struct {
	api *Client

	mu            sync.Mutex
	stations      []models.Station
	loading       bool
	err           string
	status        string
	minPower      float64
	connectorType string
}

// NewStationsStore builds a store over the given API client.
func NewStationsStore(api *Client) *StationsStore {
	return &StationsStore{api: api}
}

// Fetch reloads the caller's station list.
func (s *StationsStore) Fetch(ctx context.Context) {
	s.begin()
	stations, err := s.api.ListStations(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msgFetchFailed
		return
	}
	s.stations = stations
}

// Get fetches one station by id; nil on failure.
func (s *StationsStore) Get(ctx context.Context, id int64) *models.Station {
	s.begin()
	station, err := s.api.GetStation(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msgGetFailed
		return nil
	}
	return station
}

// Create adds a station and appends it to the held list.
func (s *StationsStore) Create(ctx context.Context, input StationInput) (*models.Station, error) {
	s.begin()
	station, err := s.api.CreateStation(ctx, input)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msgCreateFailed
		return nil, err
	}
	s.stations = append(s.stations, *station)
	return station, nil
}

// Update applies a partial update and replaces the held copy.
func (s *StationsStore) Update(ctx context.Context, id int64, input StationInput) (*models.Station, error) {
	s.begin()
	station, err := s.api.UpdateStation(ctx, id, input)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msgUpdateFailed
		return nil, err
	}
	for i := range s.stations {
		if s.stations[i].ID == id {
			s.stations[i] = *station
			break
		}
	}
	return station, nil
}

// Delete removes a station from the server and the held list.
func (s *StationsStore) Delete(ctx context.Context, id int64) error {
	s.begin()
	err := s.api.DeleteStation(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msgDeleteFailed
		return err
	}
	kept := s.stations[:0]
	for _, station := range s.stations {
		if station.ID != id {
			kept = append(kept, station)
		}
	}
	s.stations = kept
	return nil
}

// SetFilters applies the non-nil filter updates.
func (s *StationsStore) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Status != nil {
		s.status = *f.Status
	}
	if f.MinPower != nil {
		s.minPower = *f.MinPower
	}
	if f.ConnectorType != nil {
		s.connectorType = *f.ConnectorType
	}
}

// ClearFilters switches every filter off.
func (s *StationsStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = ""
	s.minPower = 0
	s.connectorType = ""
}

// Stations returns a copy of the held list.
func (s *StationsStore) Stations() []models.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Station(nil), s.stations...)
}

// FilteredStations returns the stations matching every active filter.
func (s *StationsStore) FilteredStations() []models.Station {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Station, 0, len(s.stations))
	for _, station := range s.stations {
		if s.status != "" && station.Status != s.status {
			continue
		}
		if s.minPower != 0 && station.PowerOutput < s.minPower {
			continue
		}
		if s.connectorType != "" && station.ConnectorType != s.connectorType {
			continue
		}
		filtered = append(filtered, station)
	}
	return filtered
}

// ConnectorTypes returns the deduplicated connector types currently held.
// Order is unspecified.
func (s *StationsStore) ConnectorTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var types []string
	for _, station := range s.stations {
		if _, ok := seen[station.ConnectorType]; ok {
			continue
		}
		seen[station.ConnectorType] = struct{}{}
		types = append(types, station.ConnectorType)
	}
	return types
}

// Loading reports whether a remote operation is in flight.
func (s *StationsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message recorded by the last failed operation, empty when
// the last operation succeeded.
func (s *StationsStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *StationsStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}
