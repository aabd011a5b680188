package service

import (
	"context"
	"testing"

	"github.com/campuspool/campuspool/internal/models"
)

type fakeStatsRepo struct {
	stats *models.PlatformStats
	calls int
}

func (f *fakeStatsRepo) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	f.calls++
	return f.stats, nil
}

type fakeStatsCache struct {
	stored *models.PlatformStats
}

func (f *fakeStatsCache) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	return f.stored, nil
}

func (f *fakeStatsCache) SetPlatformStats(ctx context.Context, stats *models.PlatformStats) error {
	f.stored = stats
	return nil
}

func TestPlatformStats(t *testing.T) {
	repo := &fakeStatsRepo{stats: &models.PlatformStats{TotalUsers: 42, PostedRides: 7}}
	cache := &fakeStatsCache{}
	svc := NewStatsService(repo, cache)
	ctx := context.Background()

	if _, err := svc.PlatformStats(ctx, testRider()); err == nil {
		t.Error("expected non-admin stats to fail")
	}

	admin := testAdmin()
	stats, err := svc.PlatformStats(ctx, admin)
	if err != nil {
		t.Fatalf("PlatformStats: %v", err)
	}
	if stats.TotalUsers != 42 {
		t.Errorf("total_users = %d, want 42", stats.TotalUsers)
	}
	if repo.calls != 1 {
		t.Fatalf("repo calls = %d, want 1", repo.calls)
	}

	// Second call within the TTL is served from cache.
	if _, err := svc.PlatformStats(ctx, admin); err != nil {
		t.Fatalf("cached PlatformStats: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("repo calls = %d, want 1 after cache hit", repo.calls)
	}
}
