package repository

import (
	"context"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/jmoiron/sqlx"
)

type StatsRepository interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE role = 'rider') AS total_riders,
			(SELECT COUNT(*) FROM users WHERE role = 'driver') AS total_drivers,
			(SELECT COUNT(*) FROM rides) AS total_rides,
			(SELECT COUNT(*) FROM rides WHERE status = 'posted') AS posted_rides,
			(SELECT COUNT(*) FROM rides WHERE status = 'in_progress') AS ongoing_rides,
			(SELECT COUNT(*) FROM rides WHERE status = 'completed') AS completed_rides,
			(SELECT COUNT(*) FROM ride_requests) AS total_requests,
			(SELECT COUNT(*) FROM ride_requests WHERE status = 'requested') AS pending_requests,
			(SELECT COUNT(*) FROM sos_events WHERE status = 'active') AS active_sos_events
	`
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
