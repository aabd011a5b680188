package models

import (
	"time"
)

// Ride request status constants
const (
	RequestStatusRequested = "requested"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusOngoing   = "ongoing"
	RequestStatusCompleted = "completed"
)

// Valid ride request state transitions
var ValidRequestTransitions = map[string][]string{
	RequestStatusRequested: {RequestStatusAccepted, RequestStatusRejected},
	RequestStatusAccepted:  {RequestStatusOngoing},
	RequestStatusOngoing:   {RequestStatusCompleted},
	RequestStatusRejected:  {},
	RequestStatusCompleted: {},
}

// UnfinishedRequestStatuses are the non-terminal, non-rejected states.
var UnfinishedRequestStatuses = []string{
	RequestStatusRequested,
	RequestStatusAccepted,
	RequestStatusOngoing,
}

// NonRejectedRequestStatuses covers every state except rejected. A rider may
// hold at most one request in these states per ride.
var NonRejectedRequestStatuses = []string{
	RequestStatusRequested,
	RequestStatusAccepted,
	RequestStatusOngoing,
	RequestStatusCompleted,
}

type RideRequest struct {
	ID              string     `db:"id" json:"id"`
	RideID          string     `db:"ride_id" json:"ride_id"`
	RiderID         string     `db:"rider_id" json:"rider_id"`
	Status          string     `db:"status" json:"status"`
	PIN             *string    `db:"pin" json:"-"`
	RideStartedAt   *time.Time `db:"ride_started_at" json:"ride_started_at,omitempty"`
	ReachedSafelyAt *time.Time `db:"reached_safely_at" json:"reached_safely_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// RideRequestDetail is a request joined with rider and ride display fields.
type RideRequestDetail struct {
	RideRequest
	RiderName       string `db:"rider_name"`
	RiderEmail      string `db:"rider_email"`
	RideSource      string `db:"ride_source"`
	RideDestination string `db:"ride_destination"`
	RideDate        string `db:"ride_date"`
	RideTime        string `db:"ride_time"`
}

type RequestRideRequest struct {
	RideID string `json:"ride_id" validate:"required,uuid"`
}

type RequestDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type StartRideRequest struct {
	PIN string `json:"pin" validate:"required,len=4,number"`
}

type RideRequestResponse struct {
	ID              string     `json:"id"`
	RideID          string     `json:"ride_id"`
	RiderID         string     `json:"rider_id"`
	RiderName       string     `json:"rider_name,omitempty"`
	RiderEmail      string     `json:"rider_email,omitempty"`
	RideSource      string     `json:"ride_source,omitempty"`
	RideDestination string     `json:"ride_destination,omitempty"`
	RideDate        string     `json:"ride_date,omitempty"`
	RideTime        string     `json:"ride_time,omitempty"`
	Status          string     `json:"status"`
	PIN             *string    `json:"pin,omitempty"`
	RideStartedAt   *time.Time `json:"ride_started_at,omitempty"`
	ReachedSafelyAt *time.Time `json:"reached_safely_at,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

// CanTransitionTo checks if a request can transition to a new status
func (r *RideRequest) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidRequestTransitions[r.Status]
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

// IsFinished reports whether the request reached a terminal state.
func (r *RideRequest) IsFinished() bool {
	return r.Status == RequestStatusRejected || r.Status == RequestStatusCompleted
}

func (r *RideRequest) ToResponse() *RideRequestResponse {
	return &RideRequestResponse{
		ID:              r.ID,
		RideID:          r.RideID,
		RiderID:         r.RiderID,
		Status:          r.Status,
		RideStartedAt:   r.RideStartedAt,
		ReachedSafelyAt: r.ReachedSafelyAt,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (d *RideRequestDetail) ToResponse() *RideRequestResponse {
	resp := d.RideRequest.ToResponse()
	resp.RiderName = d.RiderName
	resp.RiderEmail = d.RiderEmail
	resp.RideSource = d.RideSource
	resp.RideDestination = d.RideDestination
	resp.RideDate = d.RideDate
	resp.RideTime = d.RideTime
	return resp
}

// WithPIN attaches the stored pin to a response. Only the rider's own views
// include it; the driver confirms the rider by asking for it in person.
func (resp *RideRequestResponse) WithPIN(pin *string) *RideRequestResponse {
	resp.PIN = pin
	return resp
}
