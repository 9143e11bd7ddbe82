package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/mocktest-service/internal/events"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
)

// QuestionService manages the mock test question pool
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	CreateBatch(ctx context.Context, reqs []*CreateQuestionRequest) ([]*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	// Seed loads questions into the pool, replacing the current pool when replace is set
	Seed(ctx context.Context, questions []*models.Question, replace bool) (*SeedResult, error)

	// Sample draws up to n distinct questions uniformly at random
	Sample(ctx context.Context, n int) ([]*models.Question, error)
}

type CreateQuestionRequest struct {
	Category      string   `json:"category" validate:"required,question_category"`
	Text          string   `json:"question" validate:"required,notblank,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,max=6,dive,notblank"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,notblank"`
}

// ToModel trims the request into a question
func (r *CreateQuestionRequest) ToModel() *models.Question {
	options := make([]string, len(r.Options))
	for i, option := range r.Options {
		options[i] = strings.TrimSpace(option)
	}
	return &models.Question{
		Category:      r.Category,
		Text:          strings.TrimSpace(r.Text),
		Options:       options,
		CorrectAnswer: strings.TrimSpace(r.CorrectAnswer),
	}
}

type SeedResult struct {
	Deleted int64 `json:"deleted"`
	Created int   `json:"created"`
}

type questionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		publisher: publisher,
		logger:    NewServiceLogger(logger, "question"),
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (question *models.Question, err error) {
	op := s.logger.WithOperation(ctx, "create_question")
	defer func() {
		var id uint
		if question != nil {
			id = question.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question = req.ToModel()
	if err := s.validator.Validate(question); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// CreateBatch is all-or-nothing: a single invalid question rejects the whole batch
func (s *questionService) CreateBatch(ctx context.Context, reqs []*CreateQuestionRequest) (questions []*models.Question, err error) {
	op := s.logger.WithOperation(ctx, "create_question_batch")
	defer func() { op.LogResult(0, err) }()

	if len(reqs) == 0 {
		return nil, NewValidationError("questions", "at least one question is required", nil)
	}

	var errs ValidationErrors
	questions = make([]*models.Question, 0, len(reqs))
	for i, req := range reqs {
		if err := s.validator.ValidateStruct(req); err != nil {
			errs = append(errs, prefixValidation(fmt.Sprintf("questions[%d].", i), err)...)
			continue
		}
		questions = append(questions, req.ToModel())
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if errs := s.validator.GetQuestionValidator().ValidateBatch(questions); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to create questions: %w", err)
	}
	s.publishImported(ctx, len(questions), 0)
	return questions, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	if filters.Category != "" {
		if err := s.validator.Var(filters.Category, "question_category"); err != nil {
			return nil, 0, NewValidationError("category", "unknown category", filters.Category)
		}
	}

	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (s *questionService) Delete(ctx context.Context, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "delete_question")
	defer func() { op.LogResult(id, err) }()

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *questionService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Question().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

func (s *questionService) Seed(ctx context.Context, questions []*models.Question, replace bool) (result *SeedResult, err error) {
	op := s.logger.WithOperation(ctx, "seed_questions")
	defer func() { op.LogResult(0, err) }()

	if len(questions) == 0 {
		return nil, ErrQuestionPoolEmpty
	}
	if errs := s.validator.GetQuestionValidator().ValidateBatch(questions); len(errs) > 0 {
		return nil, errs
	}

	result = &SeedResult{}
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if replace {
			deleted, err := tx.Question().DeleteAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear question pool: %w", err)
			}
			result.Deleted = deleted
		}
		if err := tx.Question().CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("failed to insert questions: %w", err)
		}
		result.Created = len(questions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishImported(ctx, result.Created, 0)
	return result, nil
}

func (s *questionService) Sample(ctx context.Context, n int) ([]*models.Question, error) {
	if n <= 0 {
		return nil, NewValidationError("n", "sample size must be positive", n)
	}
	questions, err := s.repo.Question().Sample(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrQuestionPoolEmpty
	}
	return questions, nil
}

func (s *questionService) publishImported(ctx context.Context, created, rejected int) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewQuestionsImportedEvent(created, rejected)); err != nil {
		s.logger.logger.Warn("Failed to publish questions imported event", "error", err)
	}
}

// prefixValidation namespaces field names of a validation failure
func prefixValidation(prefix string, err error) ValidationErrors {
	errs, ok := err.(ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}
	out := make(ValidationErrors, len(errs))
	for i, e := range errs {
		e.Field = prefix + e.Field
		out[i] = e
	}
	return out
}
