package models

import "time"

// Station statuses.
const (
	StationStatusActive   = "active"
	StationStatusInactive = "inactive"
)

// DefaultPowerOutput is applied when a station is created without an explicit value.
const DefaultPowerOutput = 50

// Location is the geographic position of a station.
type Location struct {
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	Address   string  `db:"address" json:"address,omitempty"`
}

// Station represents a charging station record. OwnerID is fixed at creation
// and never changes afterwards.
type Station struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Location      Location  `json:"location"`
	Status        string    `db:"status" json:"status"`
	PowerOutput   float64   `db:"power_output" json:"powerOutput"`
	ConnectorType string    `db:"connector_type" json:"connectorType"`
	OwnerID       int64     `db:"owner_id" json:"owner_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
