package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RideRequestRepository interface {
	Create(ctx context.Context, request *models.RideRequest) error
	GetByID(ctx context.Context, id string) (*models.RideRequest, error)
	GetNonRejectedByRideAndRider(ctx context.Context, rideID, riderID string) (*models.RideRequest, error)
	Accept(ctx context.Context, requestID, pin string) error
	Reject(ctx context.Context, requestID string) error
	Start(ctx context.Context, requestID string, at time.Time) error
	Complete(ctx context.Context, requestID string, at time.Time) error
	CompleteOngoingByRide(ctx context.Context, rideID string, at time.Time) error
	ListByRider(ctx context.Context, riderID string) ([]*models.RideRequestDetail, error)
	ListByRide(ctx context.Context, rideID string) ([]*models.RideRequestDetail, error)
	ListPendingByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error)
	ListAcceptedByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error)
	CountByRideInStatus(ctx context.Context, rideID string, statuses []string) (int, error)
}

type rideRequestRepository struct {
	db *sqlx.DB
}

func NewRideRequestRepository(db *sqlx.DB) RideRequestRepository {
	return &rideRequestRepository{db: db}
}

func (r *rideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	request.Status = models.RequestStatusRequested

	query := `
		INSERT INTO ride_requests (id, ride_id, rider_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		request.ID, request.RideID, request.RiderID, request.Status,
		request.CreatedAt, request.UpdatedAt)
	return err
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id string) (*models.RideRequest, error) {
	var request models.RideRequest
	query := `SELECT * FROM ride_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &request, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *rideRequestRepository) GetNonRejectedByRideAndRider(ctx context.Context, rideID, riderID string) (*models.RideRequest, error) {
	var request models.RideRequest
	query := `
		SELECT * FROM ride_requests
		WHERE ride_id = $1 AND rider_id = $2 AND status = ANY($3)
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &request, query, rideID, riderID,
		statusArray(models.NonRejectedRequestStatuses))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

// Accept moves a request to accepted and takes one seat on the ride in a
// single transaction. The request row is locked first, then the seat is taken
// with a guarded decrement so concurrent accepts can never drive
// available_seats below zero.
func (r *rideRequestRepository) Accept(ctx context.Context, requestID, pin string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var request models.RideRequest
	err = tx.GetContext(ctx, &request, `SELECT * FROM ride_requests WHERE id = $1 FOR UPDATE`, requestID)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	if request.Status != models.RequestStatusRequested {
		return apperrors.ErrInvalidTransition
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE rides SET available_seats = available_seats - 1, updated_at = $1
		 WHERE id = $2 AND available_seats > 0`,
		time.Now(), request.RideID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrSeatsExhausted
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE ride_requests SET status = $1, pin = $2, updated_at = $3 WHERE id = $4`,
		models.RequestStatusAccepted, pin, time.Now(), requestID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *rideRequestRepository) Reject(ctx context.Context, requestID string) error {
	return r.transition(ctx, requestID, models.RequestStatusRequested, models.RequestStatusRejected,
		`UPDATE ride_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`)
}

func (r *rideRequestRepository) Start(ctx context.Context, requestID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ride_requests SET status = $1, ride_started_at = $2, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		models.RequestStatusOngoing, at, time.Now(), requestID, models.RequestStatusAccepted)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

func (r *rideRequestRepository) Complete(ctx context.Context, requestID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ride_requests SET status = $1, reached_safely_at = $2, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		models.RequestStatusCompleted, at, time.Now(), requestID, models.RequestStatusOngoing)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

// CompleteOngoingByRide finishes every in-trip request when the driver closes
// the ride.
func (r *rideRequestRepository) CompleteOngoingByRide(ctx context.Context, rideID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ride_requests SET status = $1, reached_safely_at = $2, updated_at = $3
		 WHERE ride_id = $4 AND status = $5`,
		models.RequestStatusCompleted, at, time.Now(), rideID, models.RequestStatusOngoing)
	return err
}

const requestDetailQuery = `
	SELECT rr.*,
		u.name AS rider_name, u.email AS rider_email,
		r.source AS ride_source, r.destination AS ride_destination,
		r.departure_date AS ride_date, r.departure_time AS ride_time
	FROM ride_requests rr
	JOIN users u ON u.id = rr.rider_id
	JOIN rides r ON r.id = rr.ride_id
`

func (r *rideRequestRepository) ListByRider(ctx context.Context, riderID string) ([]*models.RideRequestDetail, error) {
	var requests []*models.RideRequestDetail
	query := requestDetailQuery + ` WHERE rr.rider_id = $1 ORDER BY rr.created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, riderID)
	return requests, err
}

func (r *rideRequestRepository) ListByRide(ctx context.Context, rideID string) ([]*models.RideRequestDetail, error) {
	var requests []*models.RideRequestDetail
	query := requestDetailQuery + ` WHERE rr.ride_id = $1 ORDER BY rr.created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, rideID)
	return requests, err
}

func (r *rideRequestRepository) ListPendingByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error) {
	var requests []*models.RideRequestDetail
	query := requestDetailQuery + ` WHERE r.driver_id = $1 AND rr.status = $2 ORDER BY rr.created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, driverID, models.RequestStatusRequested)
	return requests, err
}

func (r *rideRequestRepository) ListAcceptedByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error) {
	var requests []*models.RideRequestDetail
	query := requestDetailQuery + ` WHERE r.driver_id = $1 AND rr.status = ANY($2) ORDER BY rr.created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, driverID,
		statusArray([]string{models.RequestStatusAccepted, models.RequestStatusOngoing, models.RequestStatusCompleted}))
	return requests, err
}

func (r *rideRequestRepository) CountByRideInStatus(ctx context.Context, rideID string, statuses []string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM ride_requests WHERE ride_id = $1 AND status = ANY($2)`
	err := r.db.GetContext(ctx, &count, query, rideID, statusArray(statuses))
	return count, err
}

func (r *rideRequestRepository) transition(ctx context.Context, requestID, from, to, query string) error {
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), requestID, from)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

// requireTransition maps a zero-row guarded update to the transition error so
// callers see a conflict instead of a silent no-op.
func requireTransition(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
