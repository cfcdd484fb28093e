package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	examHandler *ExamHandler
	identity    gin.HandlerFunc
}

// NewHandlerManager wires the handlers. identity attaches the student id to
// every API request.
func NewHandlerManager(
	examService services.ExamService,
	validator *validator.Validator,
	identity gin.HandlerFunc,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler: NewExamHandler(examService, validator, logger),
		identity:    identity,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.identity)
	{
		v1.POST("/exams/:subject/sessions", hm.examHandler.StartSession)

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:key", hm.examHandler.GetSession)
			sessions.POST("/:key/commands", hm.examHandler.DispatchCommand)
			sessions.GET("/:key/result", hm.examHandler.GetResult)
			sessions.GET("/:key/report", hm.examHandler.ExportReport)
		}

		history := v1.Group("/history")
		{
			history.GET("/sessions", hm.examHandler.ListSessions)
			history.GET("/sessions/:id/answers", hm.examHandler.ReviewSession)
			history.GET("/mastery", hm.examHandler.GetMastery)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-session-service",
	})
}
