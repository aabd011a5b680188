package models

// PlatformStats is the admin dashboard rollup.
type PlatformStats struct {
	TotalUsers      int `db:"total_users" json:"total_users"`
	TotalRiders     int `db:"total_riders" json:"total_riders"`
	TotalDrivers    int `db:"total_drivers" json:"total_drivers"`
	TotalRides      int `db:"total_rides" json:"total_rides"`
	PostedRides     int `db:"posted_rides" json:"posted_rides"`
	OngoingRides    int `db:"ongoing_rides" json:"ongoing_rides"`
	CompletedRides  int `db:"completed_rides" json:"completed_rides"`
	TotalRequests   int `db:"total_requests" json:"total_requests"`
	PendingRequests int `db:"pending_requests" json:"pending_requests"`
	ActiveSosEvents int `db:"active_sos_events" json:"active_sos_events"`
}
