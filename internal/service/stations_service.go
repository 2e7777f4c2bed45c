package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"voltpoint/internal/models"
	"voltpoint/internal/policy"
	"voltpoint/internal/repository"
)

// ErrNotAuthorized is returned when a caller touches a station owned by
// someone else. It is deliberately distinct from ErrStationNotFound: the
// source system reports a mismatch as not-authorized rather than hiding the
// record's existence.
var ErrNotAuthorized = errors.New("stations: caller is not the owner")

// Station change event types pushed to the owner's feed.
const (
	EventStationCreated = "station.created"
	EventStationUpdated = "station.updated"
	EventStationDeleted = "station.deleted"
)

// StationRepository defines the storage contract used by the service.
type StationRepository interface {
	Create(ctx context.Context, station *models.Station) error
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Station, error)
	Update(ctx context.Context, station *models.Station) error
	Delete(ctx context.Context, id int64) error
}

// ListCache caches per-owner station lists. Implementations may be absent; the
// service treats a nil cache as disabled.
type ListCache interface {
	Get(ctx context.Context, ownerID int64) ([]models.Station, error)
	Save(ctx context.Context, ownerID int64, stations []models.Station) error
	Invalidate(ctx context.Context, ownerID int64) error
}

// EventPublisher pushes station change events to the owner's connected
// clients. Nil disables publishing.
type EventPublisher interface {
	Publish(ownerID int64, eventType string, station models.Station)
}

// ErrCacheMiss is returned by ListCache implementations when no entry exists.
var ErrCacheMiss = errors.New("stations: cache miss")

// CreateStationInput carries validated-to-be-typed fields for creation.
// Pointers distinguish absent fields from zero values.
type CreateStationInput struct {
	Name          string
	Latitude      *float64
	Longitude     *float64
	Address       string
	Status        string
	PowerOutput   *float64
	ConnectorType string
}

// UpdateStationInput carries a partial field set; nil fields are left
// unchanged. The owner is never part of the input.
type UpdateStationInput struct {
	Name          *string
	Latitude      *float64
	Longitude     *float64
	Address       *string
	Status        *string
	PowerOutput   *float64
	ConnectorType *string
}

// StationsService implements caller-scoped station CRUD.
type StationsService struct {
	repo   StationRepository
	cache  ListCache
	events EventPublisher
	logger *zap.Logger
}

// NewStationsService builds the service. cache and events may be nil.
func NewStationsService(repo StationRepository, cache ListCache, events EventPublisher, logger *zap.Logger) *StationsService {
	return &StationsService{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// List returns every station owned by the caller. No results is an empty
// slice, never an error.
func (s *StationsService) List(ctx context.Context, callerID int64) ([]models.Station, error) {
	if s.cache != nil {
		stations, err := s.cache.Get(ctx, callerID)
		if err == nil {
			return stations, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("station list cache read failed", zap.Error(err))
		}
	}

	stations, err := s.repo.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if stations == nil {
		stations = []models.Station{}
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, callerID, stations); err != nil {
			s.logger.Warn("station list cache write failed", zap.Error(err))
		}
	}
	return stations, nil
}

// GetByID returns a single station. A missing record is ErrStationNotFound;
// an existing record owned by someone else is ErrNotAuthorized.
func (s *StationsService) GetByID(ctx context.Context, callerID, id int64) (*models.Station, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Decide(callerID, station.OwnerID) != policy.Allow {
		return nil, ErrNotAuthorized
	}
	return station, nil
}

// Create validates input, assigns the caller as owner and persists the record.
func (s *StationsService) Create(ctx context.Context, callerID int64, input CreateStationInput) (*models.Station, error) {
	var v validation
	if strings.TrimSpace(input.Name) == "" {
		v.add("Please add a name")
	}
	if input.Latitude == nil {
		v.add("Please add latitude")
	}
	if input.Longitude == nil {
		v.add("Please add longitude")
	}
	status := input.Status
	if status == "" {
		status = models.StationStatusActive
	} else if !validStatus(status) {
		v.add("Status must be either active or inactive")
	}
	if strings.TrimSpace(input.ConnectorType) == "" {
		v.add("Please add connector type")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	powerOutput := float64(models.DefaultPowerOutput)
	if input.PowerOutput != nil {
		powerOutput = *input.PowerOutput
	}

	station := &models.Station{
		Name: strings.TrimSpace(input.Name),
		Location: models.Location{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
			Address:   strings.TrimSpace(input.Address),
		},
		Status:        status,
		PowerOutput:   powerOutput,
		ConnectorType: strings.TrimSpace(input.ConnectorType),
		OwnerID:       callerID,
	}

	if err := s.repo.Create(ctx, station); err != nil {
		return nil, err
	}

	s.afterChange(ctx, callerID, EventStationCreated, station)
	s.logger.Info("station created",
		zap.Int64("station_id", station.ID),
		zap.Int64("owner_id", callerID),
	)
	return station, nil
}

// Update applies a partial merge over the stored record after the ownership
// check. Supplied fields are re-validated with the creation constraints; the
// owner is never mutated.
func (s *StationsService) Update(ctx context.Context, callerID, id int64, input UpdateStationInput) (*models.Station, error) {
	station, err := s.GetByID(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	var v validation
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		v.add("Please add a name")
	}
	if input.Status != nil && !validStatus(*input.Status) {
		v.add("Status must be either active or inactive")
	}
	if input.ConnectorType != nil && strings.TrimSpace(*input.ConnectorType) == "" {
		v.add("Please add connector type")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		station.Name = strings.TrimSpace(*input.Name)
	}
	if input.Latitude != nil {
		station.Location.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		station.Location.Longitude = *input.Longitude
	}
	if input.Address != nil {
		station.Location.Address = strings.TrimSpace(*input.Address)
	}
	if input.Status != nil {
		station.Status = *input.Status
	}
	if input.PowerOutput != nil {
		station.PowerOutput = *input.PowerOutput
	}
	if input.ConnectorType != nil {
		station.ConnectorType = strings.TrimSpace(*input.ConnectorType)
	}

	if err := s.repo.Update(ctx, station); err != nil {
		return nil, err
	}

	s.afterChange(ctx, callerID, EventStationUpdated, station)
	return station, nil
}

// Delete removes the caller's station. Deleting an already removed id fails
// with ErrStationNotFound; delete is not idempotent.
func (s *StationsService) Delete(ctx context.Context, callerID, id int64) error {
	station, err := s.GetByID(ctx, callerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterChange(ctx, callerID, EventStationDeleted, station)
	s.logger.Info("station deleted",
		zap.Int64("station_id", id),
		zap.Int64("owner_id", callerID),
	)
	return nil
}

func (s *StationsService) afterChange(ctx context.Context, ownerID int64, eventType string, station *models.Station) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ownerID); err != nil {
			s.logger.Warn("station list cache invalidation failed", zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.Publish(ownerID, eventType, *station)
	}
}

func validStatus(status string) bool {
	return status == models.StationStatusActive || status == models.StationStatusInactive
}

// ErrStationNotFound re-exports the repository sentinel for handler code.
var ErrStationNotFound = repository.ErrStationNotFound
