package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/cache"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMockResultService_Stats_CacheMissComputesAndStores(t *testing.T) {
	repo := newMockRepository()
	cacheService := &MockCacheService{}
	service := NewMockResultService(repo, cacheService, testLogger(), 60, time.Minute)

	cacheService.On("Get", mock.Anything, statsCacheKey, mock.Anything).Return(cache.ErrCacheMiss)
	repo.mockResultRepo.On("Aggregate", mock.Anything, 60).Return(&repositories.MockResultAggregate{
		TotalResults:   4,
		AverageScore:   9.5,
		AveragePercent: 63.3,
		BestScore:      14,
		PassedCount:    3,
	}, nil)
	cacheService.On("Set", mock.Anything, statsCacheKey, mock.AnythingOfType("*models.MockResultStats"), time.Minute).Return(nil)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalResults)
	assert.Equal(t, 14, stats.BestScore)
	assert.Equal(t, 60, stats.PassPercent)
	assert.InDelta(t, 0.75, stats.PassRate, 1e-9)
	cacheService.AssertExpectations(t)
}

func TestMockResultService_Stats_CacheHit(t *testing.T) {
	repo := newMockRepository()
	cacheService := &MockCacheService{}
	service := NewMockResultService(repo, cacheService, testLogger(), 60, time.Minute)

	cacheService.On("Get", mock.Anything, statsCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.MockResultStats)
			dest.TotalResults = 42
		}).
		Return(nil)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalResults)
	repo.mockResultRepo.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestMockResultService_Stats_EmptyTable(t *testing.T) {
	repo := newMockRepository()
	cacheService := &MockCacheService{}
	service := NewMockResultService(repo, cacheService, testLogger(), 60, time.Minute)

	cacheService.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	cacheService.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	repo.mockResultRepo.On("Aggregate", mock.Anything, 60).Return(&repositories.MockResultAggregate{}, nil)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.PassRate)
}

func TestMockResultService_GetByID_NotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewMockResultService(repo, cache.NewNoopCache(), testLogger(), 60, time.Minute)
	repo.mockResultRepo.On("GetByID", mock.Anything, uint(5)).Return(nil, repositories.ErrNotFound)

	_, err := service.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrMockResultNotFound)
}

func TestMockResultService_List_RejectsInvertedRange(t *testing.T) {
	repo := newMockRepository()
	service := NewMockResultService(repo, cache.NewNoopCache(), testLogger(), 60, time.Minute)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, _, err := service.List(context.Background(), repositories.MockResultFilters{DateFrom: &from, DateTo: &to})
	assert.True(t, IsValidation(err))
}
