package handlers

import (
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionHandler   *QuestionHandler
	mockResultHandler *MockResultHandler
	mockTestHandler   *MockTestHandler
	healthHandler     *HealthHandler
	adminAuth         gin.HandlerFunc
}

func NewHandlerManager(
	questionHandler *QuestionHandler,
	mockResultHandler *MockResultHandler,
	mockTestHandler *MockTestHandler,
	healthHandler *HealthHandler,
	adminAuth gin.HandlerFunc,
) *HandlerManager {
	return &HandlerManager{
		questionHandler:   questionHandler,
		mockResultHandler: mockResultHandler,
		mockTestHandler:   mockTestHandler,
		healthHandler:     healthHandler,
		adminAuth:         adminAuth,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.healthHandler.HealthCheck)

	// Mock test transport
	router.GET("/ws/mock-test", hm.mockTestHandler.HandleWebSocket)

	// API v1 routes
	v1 := router.Group("/api/v1")
	admin := v1.Group("/admin")
	admin.Use(hm.adminAuth)
	{
		// Question pool
		questions := admin.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.POST("/batch", hm.questionHandler.CreateQuestionsBatch)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/export", hm.questionHandler.ExportQuestions)
			questions.POST("/seed", hm.questionHandler.SeedQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		// Completed mock tests
		results := admin.Group("/mock-results")
		{
			results.GET("", hm.mockResultHandler.ListResults)
			results.GET("/stats", hm.mockResultHandler.GetStats)
			results.GET("/export", hm.mockResultHandler.ExportResults)
			results.GET("/:id", hm.mockResultHandler.GetResult)
		}

		admin.GET("/mock-tests/active", hm.mockTestHandler.ActiveConnections)
	}
}
