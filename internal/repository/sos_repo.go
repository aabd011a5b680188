package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SosRepository interface {
	Create(ctx context.Context, event *models.SosEvent) error
	GetByID(ctx context.Context, id string) (*models.SosEvent, error)
	List(ctx context.Context, status string) ([]*models.SosEvent, error)
	CountsByStatus(ctx context.Context) (map[string]int, error)
	MarkReviewed(ctx context.Context, id, notes string) error
	MarkResolved(ctx context.Context, id, notes string, at time.Time) error
}

type sosRepository struct {
	db *sqlx.DB
}

func NewSosRepository(db *sqlx.DB) SosRepository {
	return &sosRepository{db: db}
}

func (r *sosRepository) Create(ctx context.Context, event *models.SosEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	event.Status = models.SosStatusActive

	query := `
		INSERT INTO sos_events (id, ride_request_id, triggered_by, latitude, longitude,
			message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.RideRequestID, event.TriggeredBy, event.Latitude, event.Longitude,
		event.Message, event.Status, event.CreatedAt)
	return err
}

func (r *sosRepository) GetByID(ctx context.Context, id string) (*models.SosEvent, error) {
	var event models.SosEvent
	query := `SELECT * FROM sos_events WHERE id = $1`
	err := r.db.GetContext(ctx, &event, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &event, err
}

func (r *sosRepository) List(ctx context.Context, status string) ([]*models.SosEvent, error) {
	var events []*models.SosEvent
	if status != "" {
		query := `SELECT * FROM sos_events WHERE status = $1 ORDER BY created_at DESC`
		err := r.db.SelectContext(ctx, &events, query, status)
		return events, err
	}
	query := `SELECT * FROM sos_events ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &events, query)
	return events, err
}

func (r *sosRepository) CountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM sos_events GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{
		models.SosStatusActive:   0,
		models.SosStatusReviewed: 0,
		models.SosStatusResolved: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *sosRepository) MarkReviewed(ctx context.Context, id, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sos_events SET status = $1, admin_notes = $2 WHERE id = $3 AND status = $4`,
		models.SosStatusReviewed, nullable(notes), id, models.SosStatusActive)
	if err != nil {
		return err
	}
	return requireTransition(res)
}

func (r *sosRepository) MarkResolved(ctx context.Context, id, notes string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sos_events SET status = $1, admin_notes = COALESCE($2, admin_notes), resolved_at = $3
		 WHERE id = $4 AND status = ANY($5)`,
		models.SosStatusResolved, nullable(notes), at, id,
		statusArray([]string{models.SosStatusActive, models.SosStatusReviewed}))
	if err != nil {
		return err
	}
	return requireTransition(res)
}
