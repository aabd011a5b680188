package models

import (
	"math"
	"time"
)

// Ride status constants
const (
	RideStatusPosted     = "posted"
	RideStatusInProgress = "in_progress"
	RideStatusCompleted  = "completed"
)

// Valid ride state transitions
var ValidRideTransitions = map[string][]string{
	RideStatusPosted:     {RideStatusInProgress, RideStatusCompleted},
	RideStatusInProgress: {RideStatusCompleted},
	RideStatusCompleted:  {},
}

type Ride struct {
	ID             string    `db:"id" json:"id"`
	DriverID       string    `db:"driver_id" json:"driver_id"`
	Source         string    `db:"source" json:"source"`
	Destination    string    `db:"destination" json:"destination"`
	SourceLat      *float64  `db:"source_lat" json:"source_lat,omitempty"`
	SourceLng      *float64  `db:"source_lng" json:"source_lng,omitempty"`
	DestinationLat *float64  `db:"destination_lat" json:"destination_lat,omitempty"`
	DestinationLng *float64  `db:"destination_lng" json:"destination_lng,omitempty"`
	DepartureDate  string    `db:"departure_date" json:"date"`
	DepartureTime  string    `db:"departure_time" json:"time"`
	TotalSeats     int       `db:"total_seats" json:"total_seats"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
	EstimatedCost  float64   `db:"estimated_cost" json:"estimated_cost"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RideDetail is a ride joined with its driver's display fields.
type RideDetail struct {
	Ride
	DriverName string `db:"driver_name" json:"driver_name"`
}

type CreateRideRequest struct {
	Source         string   `json:"source" validate:"required,min=2,max=200"`
	Destination    string   `json:"destination" validate:"required,min=2,max=200"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"required,datetime=15:04"`
	TotalSeats     int      `json:"total_seats" validate:"required,min=1,max=10"`
	EstimatedCost  float64  `json:"estimated_cost" validate:"min=0"`
	SourceLat      *float64 `json:"source_lat,omitempty" validate:"omitempty,latitude"`
	SourceLng      *float64 `json:"source_lng,omitempty" validate:"omitempty,longitude"`
	DestinationLat *float64 `json:"destination_lat,omitempty" validate:"omitempty,latitude"`
	DestinationLng *float64 `json:"destination_lng,omitempty" validate:"omitempty,longitude"`
}

type UpdateRideRequest struct {
	Source        *string  `json:"source,omitempty" validate:"omitempty,min=2,max=200"`
	Destination   *string  `json:"destination,omitempty" validate:"omitempty,min=2,max=200"`
	Date          *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time          *string  `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	TotalSeats    *int     `json:"total_seats,omitempty" validate:"omitempty,min=1,max=10"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty" validate:"omitempty,min=0"`
}

type RideResponse struct {
	ID             string   `json:"id"`
	DriverID       string   `json:"driver_id"`
	DriverName     string   `json:"driver_name,omitempty"`
	Source         string   `json:"source"`
	Destination    string   `json:"destination"`
	SourceLat      *float64 `json:"source_lat,omitempty"`
	SourceLng      *float64 `json:"source_lng,omitempty"`
	DestinationLat *float64 `json:"destination_lat,omitempty"`
	DestinationLng *float64 `json:"destination_lng,omitempty"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	SeatsTaken     int      `json:"seats_taken"`
	EstimatedCost  float64  `json:"estimated_cost"`
	CostPerRider   float64  `json:"cost_per_rider"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
}

// SeatsTaken is the number of accepted seats on the ride.
func (r *Ride) SeatsTaken() int {
	return r.TotalSeats - r.AvailableSeats
}

// CostPerRider splits the estimated cost across the driver and every rider
// with an accepted seat. With no seats taken the full cost is shown.
func (r *Ride) CostPerRider() float64 {
	taken := r.SeatsTaken()
	if taken <= 0 {
		return r.EstimatedCost
	}
	return math.Round(r.EstimatedCost/float64(taken+1)*100) / 100
}

// CanTransitionTo checks if a ride can transition to a new status
func (r *Ride) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidRideTransitions[r.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

func (r *Ride) ToResponse() *RideResponse {
	return &RideResponse{
		ID:             r.ID,
		DriverID:       r.DriverID,
		Source:         r.Source,
		Destination:    r.Destination,
		SourceLat:      r.SourceLat,
		SourceLng:      r.SourceLng,
		DestinationLat: r.DestinationLat,
		DestinationLng: r.DestinationLng,
		Date:           r.DepartureDate,
		Time:           r.DepartureTime,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
		SeatsTaken:     r.SeatsTaken(),
		EstimatedCost:  r.EstimatedCost,
		CostPerRider:   r.CostPerRider(),
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (d *RideDetail) ToResponse() *RideResponse {
	resp := d.Ride.ToResponse()
	resp.DriverName = d.DriverName
	return resp
}
