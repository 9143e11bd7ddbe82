package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/cache"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
)

var statsCacheKey = cache.Key("mock_results:stats")

// MockResultService exposes stored mock test results to administrators
type MockResultService interface {
	List(ctx context.Context, filters repositories.MockResultFilters) ([]*models.MockResult, int64, error)
	GetByID(ctx context.Context, id uint) (*models.MockResult, error)
	Stats(ctx context.Context) (*models.MockResultStats, error)
	InvalidateStats(ctx context.Context)
}

type mockResultService struct {
	repo        repositories.Repository
	cache       cache.CacheService
	logger      *slog.Logger
	passPercent int
	statsTTL    time.Duration
}

func NewMockResultService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, passPercent int, statsTTL time.Duration) MockResultService {
	return &mockResultService{
		repo:        repo,
		cache:       cacheService,
		logger:      logger,
		passPercent: passPercent,
		statsTTL:    statsTTL,
	}
}

func (s *mockResultService) List(ctx context.Context, filters repositories.MockResultFilters) ([]*models.MockResult, int64, error) {
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, 0, NewValidationError("date_to", "must not be before date_from", filters.DateTo)
	}

	results, total, err := s.repo.MockResult().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mock results: %w", err)
	}
	return results, total, nil
}

func (s *mockResultService) GetByID(ctx context.Context, id uint) (*models.MockResult, error) {
	result, err := s.repo.MockResult().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMockResultNotFound
		}
		return nil, fmt.Errorf("failed to get mock result: %w", err)
	}
	return result, nil
}

// Stats serves aggregates from cache when fresh; cache failures fall through to the database
func (s *mockResultService) Stats(ctx context.Context) (*models.MockResultStats, error) {
	var cached models.MockResultStats
	err := s.cache.Get(ctx, statsCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read stats from cache", "error", err)
	}

	agg, err := s.repo.MockResult().Aggregate(ctx, s.passPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate mock results: %w", err)
	}

	stats := &models.MockResultStats{
		TotalResults:   agg.TotalResults,
		AverageScore:   agg.AverageScore,
		AveragePercent: agg.AveragePercent,
		BestScore:      agg.BestScore,
		PassPercent:    s.passPercent,
		PassedCount:    agg.PassedCount,
		CalculatedAt:   time.Now().UTC(),
	}
	if agg.TotalResults > 0 {
		stats.PassRate = float64(agg.PassedCount) / float64(agg.TotalResults)
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.statsTTL); err != nil {
		s.logger.Warn("Failed to cache stats", "error", err)
	}
	return stats, nil
}

func (s *mockResultService) InvalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}
}
