package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/events"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	questionsSheet = "Questions"
	resultsSheet   = "Results"
	exportPageSize = 100
)

var optionColumns = []string{"option_a", "option_b", "option_c", "option_d", "option_e", "option_f"}

// ImportExportService moves questions and results in and out of spreadsheets
type ImportExportService interface {
	// ImportQuestions reads .xlsx or .csv; valid rows are saved, invalid rows reported
	ImportQuestions(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error)
	ExportQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportResults(ctx context.Context, filters repositories.MockResultFilters) ([]byte, error)
}

type importExportService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error) {
	start := time.Now()
	s.logger.Info("Starting question import", "filename", filename)

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readExcelRows(reader)
	case ".csv":
		rows, err = readCSVRows(reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[normalizeHeader(header)] = i
	}
	for _, col := range []string{"category", "question", "correct_answer"} {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{TotalRows: len(rows) - 1}
	var questions []*models.Question
	for i, row := range rows[1:] {
		question, rowErrors := s.parseRow(row, headerMap, i+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}
	for _, q := range questions {
		summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
	}
	summary.SuccessCount = len(questions)
	summary.ProcessingTime = time.Since(start)

	if s.publisher != nil && summary.SuccessCount > 0 {
		event := events.NewQuestionsImportedEvent(summary.SuccessCount, summary.ErrorCount)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish questions imported event", "error", err)
		}
	}

	s.logger.Info("Question import completed",
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	var options []string
	for _, col := range optionColumns {
		if value := getColumn(col); value != "" {
			options = append(options, value)
		}
	}

	req := &CreateQuestionRequest{
		Category:      getColumn("category"),
		Text:          getColumn("question"),
		Options:       options,
		CorrectAnswer: resolveCorrectAnswer(getColumn("correct_answer"), options),
	}

	var errs ValidationErrors
	if err := s.validator.ValidateStruct(req); err != nil {
		if ve, ok := err.(ValidationErrors); ok {
			errs = ve
		} else {
			return nil, []models.ImportValidationError{{Row: rowNum, Message: err.Error()}}
		}
	}

	question := req.ToModel()
	if len(errs) == 0 {
		errs = s.validator.GetQuestionValidator().Validate(question)
	}
	if len(errs) == 0 {
		return question, nil
	}

	rowErrors := make([]models.ImportValidationError, len(errs))
	for i, e := range errs {
		rowErrors[i] = models.ImportValidationError{Row: rowNum, Field: e.Field, Message: e.Message}
	}
	return nil, rowErrors
}

// resolveCorrectAnswer accepts either the option text or its letter (A-F)
func resolveCorrectAnswer(value string, options []string) string {
	if len(value) == 1 {
		letter := strings.ToLower(value)[0]
		if letter >= 'a' && letter <= 'f' {
			idx := int(letter - 'a')
			matchesText := false
			for _, option := range options {
				if models.NormalizeAnswer(option) == models.NormalizeAnswer(value) {
					matchesText = true
					break
				}
			}
			if !matchesText && idx < len(options) {
				return options[idx]
			}
		}
	}
	return value
}

func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to open Excel file: %v", err), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to read CSV: %v", err), nil)
	}
	return records, nil
}

// ===== EXPORT OPERATIONS =====

// ExportQuestions writes the pool in the same layout ImportQuestions reads
func (s *importExportService) ExportQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	headers := append([]interface{}{"Category", "Question"}, optionHeaders()...)
	headers = append(headers, "Correct Answer")

	return s.writeSheet(questionsSheet, headers, func(emit func([]interface{}) error) error {
		filters.Limit = exportPageSize
		for offset := 0; ; offset += exportPageSize {
			filters.Offset = offset
			questions, total, err := s.repo.Question().List(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list questions: %w", err)
			}
			for _, q := range questions {
				row := []interface{}{q.Category, q.Text}
				for i := range optionColumns {
					if i < len(q.Options) {
						row = append(row, q.Options[i])
					} else {
						row = append(row, "")
					}
				}
				row = append(row, q.CorrectAnswer)
				if err := emit(row); err != nil {
					return err
				}
			}
			if len(questions) == 0 || int64(offset+len(questions)) >= total {
				return nil
			}
		}
	})
}

func (s *importExportService) ExportResults(ctx context.Context, filters repositories.MockResultFilters) ([]byte, error) {
	headers := []interface{}{"ID", "Name", "Mobile", "Score", "Total", "Percentage", "Completed At"}

	return s.writeSheet(resultsSheet, headers, func(emit func([]interface{}) error) error {
		filters.Limit = exportPageSize
		for offset := 0; ; offset += exportPageSize {
			filters.Offset = offset
			results, total, err := s.repo.MockResult().List(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list mock results: %w", err)
			}
			for _, r := range results {
				row := []interface{}{
					r.ID,
					r.TakerName,
					r.TakerContact,
					r.Score,
					r.Total,
					fmt.Sprintf("%.1f", r.Percentage()),
					r.CompletedAt.Format("2006-01-02 15:04:05"),
				}
				if err := emit(row); err != nil {
					return err
				}
			}
			if len(results) == 0 || int64(offset+len(results)) >= total {
				return nil
			}
		}
	})
}

func (s *importExportService) writeSheet(sheetName string, headers []interface{}, fill func(emit func([]interface{}) error) error) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	rowNum := 1
	emit := func(row []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		rowNum++
		return nil
	}

	if err := emit(headers); err != nil {
		return nil, err
	}
	if err := fill(emit); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func optionHeaders() []interface{} {
	headers := make([]interface{}, len(optionColumns))
	for i := range optionColumns {
		headers[i] = fmt.Sprintf("Option %c", 'A'+i)
	}
	return headers
}
