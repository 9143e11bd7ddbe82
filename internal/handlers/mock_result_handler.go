package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"github.com/SAP-F-2025/mocktest-service/internal/services"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type MockResultHandler struct {
	BaseHandler
	resultService       services.MockResultService
	importExportService services.ImportExportService
}

func NewMockResultHandler(
	resultService services.MockResultService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *MockResultHandler {
	return &MockResultHandler{
		BaseHandler:         NewBaseHandler(logger),
		resultService:       resultService,
		importExportService: importExportService,
	}
}

// ListResults lists completed mock tests
// @Summary List mock results
// @Tags mock-results
// @Produce json
// @Param mobile query string false "Mobile number"
// @Param name query string false "Name contains"
// @Param min_score query int false "Minimum score"
// @Param date_from query string false "From date (2006-01-02)"
// @Param date_to query string false "To date (2006-01-02)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /admin/mock-results [get]
func (h *MockResultHandler) ListResults(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	results, total, err := h.resultService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items:  results,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// GetResult returns one transcript, correct answers included
// @Summary Get mock result
// @Tags mock-results
// @Produce json
// @Param id path uint true "Result ID"
// @Success 200 {object} models.MockResult
// @Failure 404 {object} ErrorResponse
// @Router /admin/mock-results/{id} [get]
func (h *MockResultHandler) GetResult(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	result, err := h.resultService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStats returns aggregate figures over all results
// @Summary Mock result statistics
// @Tags mock-results
// @Produce json
// @Success 200 {object} models.MockResultStats
// @Router /admin/mock-results/stats [get]
func (h *MockResultHandler) GetStats(c *gin.Context) {
	stats, err := h.resultService.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportResults downloads matching results as a spreadsheet
// @Summary Export mock results
// @Tags mock-results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /admin/mock-results/export [get]
func (h *MockResultHandler) ExportResults(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting mock results")

	data, err := h.importExportService.ExportResults(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, fmt.Sprintf("mock-results-%s.xlsx", time.Now().Format("20060102")), data)
}

func (h *MockResultHandler) bindFilters(c *gin.Context) (repositories.MockResultFilters, bool) {
	var filters repositories.MockResultFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return filters, false
	}

	filters.Limit, filters.Offset = parsePage(c)
	return filters, true
}
