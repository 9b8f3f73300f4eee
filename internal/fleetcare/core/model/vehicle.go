package model

// VehicleStatus tells whether a vehicle is being tracked.
type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusInactive VehicleStatus = "inactive"
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Vehicle is a tracked vehicle. It is read-only for this service.
type Vehicle struct {
	ID     string
	Plate  string
	Model  string
	Status VehicleStatus

	// Image is the path of the vehicle picture served by the frontend.
	Image string

	// Location is the last known position, used as the simulation base.
	Location Coordinate
}

func (v *Vehicle) Clone() *Vehicle {
	c := *v
	return &c
}
