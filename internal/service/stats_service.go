package service

import (
	"context"
	"log"

	"github.com/campuspool/campuspool/internal/cache"
	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

type StatsService interface {
	PlatformStats(ctx context.Context, actor *models.User) (*models.PlatformStats, error)
}

type statsService struct {
	statsRepo  repository.StatsRepository
	statsCache cache.StatsCache
}

func NewStatsService(statsRepo repository.StatsRepository, statsCache cache.StatsCache) StatsService {
	return &statsService{statsRepo: statsRepo, statsCache: statsCache}
}

func (s *statsService) PlatformStats(ctx context.Context, actor *models.User) (*models.PlatformStats, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	if s.statsCache != nil {
		cached, err := s.statsCache.GetPlatformStats(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := s.statsRepo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetPlatformStats(ctx, stats); err != nil {
			log.Printf("failed to cache platform stats: %v", err)
		}
	}

	return stats, nil
}
