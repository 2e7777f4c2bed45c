package repository

import (
	"context"
	"database/sql"
	"errors"

	"voltpoint/internal/models"
)

// ErrStationNotFound represents a missing station row.
var ErrStationNotFound = errors.New("station not found")

// StationRepository handles persistence of station records.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station and fills server-assigned fields.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	const query = `
		INSERT INTO stations (name, latitude, longitude, address, status, power_output, connector_type, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		station.Name,
		station.Location.Latitude,
		station.Location.Longitude,
		nullableString(station.Location.Address),
		station.Status,
		station.PowerOutput,
		station.ConnectorType,
		station.OwnerID,
	).Scan(&station.ID, &station.CreatedAt, &station.UpdatedAt)
}

// GetByID fetches a single station regardless of owner. Ownership is decided
// by the service layer so that a mismatch can be told apart from absence.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	const query = `
		SELECT id, name, latitude, longitude, address, status, power_output, connector_type, owner_id, created_at, updated_at
		FROM stations
		WHERE id = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	station, err := scanStation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// ListByOwner returns every station owned by the given user.
func (r *StationRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Station, error) {
	const query = `
		SELECT id, name, latitude, longitude, address, status, power_output, connector_type, owner_id, created_at, updated_at
		FROM stations
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Update persists the merged record. owner_id is deliberately absent from the
// SET list.
func (r *StationRepository) Update(ctx context.Context, station *models.Station) error {
	const query = `
		UPDATE stations
		SET name = $2,
		    latitude = $3,
		    longitude = $4,
		    address = $5,
		    status = $6,
		    power_output = $7,
		    connector_type = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		station.ID,
		station.Name,
		station.Location.Latitude,
		station.Location.Longitude,
		nullableString(station.Location.Address),
		station.Status,
		station.PowerOutput,
		station.ConnectorType,
	).Scan(&station.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStationNotFound
	}
	return err
}

// Delete removes a station row.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM stations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		station models.Station
		address sql.NullString
	)
	if err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Location.Latitude,
		&station.Location.Longitude,
		&address,
		&station.Status,
		&station.PowerOutput,
		&station.ConnectorType,
		&station.OwnerID,
		&station.CreatedAt,
		&station.UpdatedAt,
	); err != nil {
		return nil, err
	}
	station.Location.Address = address.String
	return &station, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
