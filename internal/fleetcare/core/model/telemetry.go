package model

import "time"

// MovementStatus of a telemetry sample. Only moving is produced today.
type MovementStatus string

const (
	MovementMoving  MovementStatus = "moving"
	MovementStopped MovementStatus = "stopped"
)

// TelemetrySample is one synthetic reading. Samples are derived on demand and
// never stored.
type TelemetrySample struct {
	VehicleID string
	Location  Coordinate

	// Speed in km/h.
	Speed int

	// Heading in degrees, 0 to 359.
	Heading int

	Timestamp time.Time
	Status    MovementStatus
}
