package handlers

import (
	"context"
	"io"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/SAP-F-2025/mocktest-service/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Create(ctx context.Context, req *services.CreateQuestionRequest) (*models.Question, error) {
	args := m.Called(ctx, req)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionService) CreateBatch(ctx context.Context, reqs []*services.CreateQuestionRequest) ([]*models.Question, error) {
	args := m.Called(ctx, reqs)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

func (m *MockQuestionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionService) Seed(ctx context.Context, questions []*models.Question, replace bool) (*services.SeedResult, error) {
	args := m.Called(ctx, questions, replace)
	result, _ := args.Get(0).(*services.SeedResult)
	return result, args.Error(1)
}

func (m *MockQuestionService) Sample(ctx context.Context, n int) ([]*models.Question, error) {
	args := m.Called(ctx, n)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

type MockMockResultService struct {
	mock.Mock
}

func (m *MockMockResultService) List(ctx context.Context, filters repositories.MockResultFilters) ([]*models.MockResult, int64, error) {
	args := m.Called(ctx, filters)
	results, _ := args.Get(0).([]*models.MockResult)
	return results, args.Get(1).(int64), args.Error(2)
}

func (m *MockMockResultService) GetByID(ctx context.Context, id uint) (*models.MockResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*models.MockResult)
	return result, args.Error(1)
}

func (m *MockMockResultService) Stats(ctx context.Context) (*models.MockResultStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.MockResultStats)
	return stats, args.Error(1)
}

func (m *MockMockResultService) InvalidateStats(ctx context.Context) {
	m.Called(ctx)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error) {
	args := m.Called(ctx, reader, filename)
	summary, _ := args.Get(0).(*models.ImportSummary)
	return summary, args.Error(1)
}

func (m *MockImportExportService) ExportQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	args := m.Called(ctx, filters)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockImportExportService) ExportResults(ctx context.Context, filters repositories.MockResultFilters) ([]byte, error) {
	args := m.Called(ctx, filters)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
