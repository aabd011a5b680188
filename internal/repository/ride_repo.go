package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id string) (*models.Ride, error)
	List(ctx context.Context, destination, date string) ([]*models.RideDetail, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error)
	ListAll(ctx context.Context) ([]*models.RideDetail, error)
	Update(ctx context.Context, ride *models.Ride) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateStatusFrom(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string) error
}

type rideRepository struct {
	db *sqlx.DB
}

func NewRideRepository(db *sqlx.DB) RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	if ride.ID == "" {
		ride.ID = uuid.New().String()
	}
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	ride.Status = models.RideStatusPosted
	ride.AvailableSeats = ride.TotalSeats

	query := `
		INSERT INTO rides (id, driver_id, source, destination, source_lat, source_lng,
			destination_lat, destination_lng, departure_date, departure_time,
			total_seats, available_seats, estimated_cost, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.DriverID, ride.Source, ride.Destination, ride.SourceLat, ride.SourceLng,
		ride.DestinationLat, ride.DestinationLng, ride.DepartureDate, ride.DepartureTime,
		ride.TotalSeats, ride.AvailableSeats, ride.EstimatedCost, ride.Status,
		ride.CreatedAt, ride.UpdatedAt)
	return err
}

func (r *rideRepository) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	var ride models.Ride
	query := `SELECT * FROM rides WHERE id = $1`
	err := r.db.GetContext(ctx, &ride, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &ride, err
}

const rideDetailColumns = `
	r.*, u.name AS driver_name
`

func (r *rideRepository) List(ctx context.Context, destination, date string) ([]*models.RideDetail, error) {
	query := `
		SELECT ` + rideDetailColumns + `
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		WHERE r.status = $1 AND r.available_seats > 0
	`
	args := []interface{}{models.RideStatusPosted}

	if destination != "" {
		args = append(args, "%"+destination+"%")
		query += ` AND r.destination ILIKE $2`
	}
	if date != "" {
		args = append(args, date)
		if destination != "" {
			query += ` AND r.departure_date = $3`
		} else {
			query += ` AND r.departure_date = $2`
		}
	}
	query += ` ORDER BY r.created_at DESC`

	var rides []*models.RideDetail
	err := r.db.SelectContext(ctx, &rides, query, args...)
	return rides, err
}

func (r *rideRepository) ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	var rides []*models.Ride
	query := `SELECT * FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &rides, query, driverID)
	return rides, err
}

func (r *rideRepository) ListAll(ctx context.Context) ([]*models.RideDetail, error) {
	query := `
		SELECT ` + rideDetailColumns + `
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		ORDER BY r.created_at DESC
	`
	var rides []*models.RideDetail
	err := r.db.SelectContext(ctx, &rides, query)
	return rides, err
}

func (r *rideRepository) Update(ctx context.Context, ride *models.Ride) error {
	ride.UpdatedAt = time.Now()
	query := `
		UPDATE rides
		SET source = $1, destination = $2, departure_date = $3, departure_time = $4,
			total_seats = $5, available_seats = $6, estimated_cost = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		ride.Source, ride.Destination, ride.DepartureDate, ride.DepartureTime,
		ride.TotalSeats, ride.AvailableSeats, ride.EstimatedCost, ride.UpdatedAt, ride.ID)
	return err
}

func (r *rideRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

// UpdateStatusFrom transitions a ride only when it is still in the expected
// state. A zero-row result means another request already moved it, which is
// fine for the posted -> in_progress and rollup-to-completed paths.
func (r *rideRepository) UpdateStatusFrom(ctx context.Context, id, from, to string) error {
	query := `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	_, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	return err
}

// Delete removes the ride; requests, chat and SOS rows cascade in the schema.
func (r *rideRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rides WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
