package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) Sample(ctx context.Context, n int) ([]*models.Question, error) {
	args := m.Called(ctx, n)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

// MockMockResultRepository is a mock implementation of MockResultRepository
type MockMockResultRepository struct {
	mock.Mock
}

func (m *MockMockResultRepository) Create(ctx context.Context, result *models.MockResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockMockResultRepository) GetByID(ctx context.Context, id uint) (*models.MockResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*models.MockResult)
	return result, args.Error(1)
}

func (m *MockMockResultRepository) List(ctx context.Context, filters repositories.MockResultFilters) ([]*models.MockResult, int64, error) {
	args := m.Called(ctx, filters)
	results, _ := args.Get(0).([]*models.MockResult)
	return results, args.Get(1).(int64), args.Error(2)
}

func (m *MockMockResultRepository) Aggregate(ctx context.Context, passPercent int) (*repositories.MockResultAggregate, error) {
	args := m.Called(ctx, passPercent)
	agg, _ := args.Get(0).(*repositories.MockResultAggregate)
	return agg, args.Error(1)
}

// MockRepository is a mock implementation of the main Repository interface
type MockRepository struct {
	mock.Mock
	questionRepo   *MockQuestionRepository
	mockResultRepo *MockMockResultRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		questionRepo:   &MockQuestionRepository{},
		mockResultRepo: &MockMockResultRepository{},
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository     { return m.questionRepo }
func (m *MockRepository) MockResult() repositories.MockResultRepository { return m.mockResultRepo }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// MockCacheService is a mock implementation of cache.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
