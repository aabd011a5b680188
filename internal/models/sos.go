package models

import (
	"time"
)

// SOS event status constants
const (
	SosStatusActive   = "active"
	SosStatusReviewed = "reviewed"
	SosStatusResolved = "resolved"
)

// Valid SOS state transitions. Review may be skipped when an admin resolves
// directly from active.
var ValidSosTransitions = map[string][]string{
	SosStatusActive:   {SosStatusReviewed, SosStatusResolved},
	SosStatusReviewed: {SosStatusResolved},
	SosStatusResolved: {},
}

type SosEvent struct {
	ID            string     `db:"id" json:"id"`
	RideRequestID string     `db:"ride_request_id" json:"ride_request_id"`
	TriggeredBy   string     `db:"triggered_by" json:"triggered_by"`
	Latitude      *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude     *float64   `db:"longitude" json:"longitude,omitempty"`
	Message       *string    `db:"message" json:"message,omitempty"`
	Status        string     `db:"status" json:"status"`
	AdminNotes    *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt    *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

type TriggerSosRequest struct {
	RideRequestID string   `json:"ride_request_id" validate:"required,uuid"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Message       string   `json:"message,omitempty" validate:"omitempty,max=500"`
}

type SosActionRequest struct {
	Action string `json:"action" validate:"required,oneof=review resolve"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type SosListResponse struct {
	Events []*SosEvent    `json:"events"`
	Counts map[string]int `json:"counts"`
}

// CanTransitionTo checks if an SOS event can transition to a new status
func (s *SosEvent) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidSosTransitions[s.Status]
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
