package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CommandRequest is one student action on a live session.
type CommandRequest struct {
	Type      string `json:"type" validate:"required,command_type"`
	Letter    string `json:"letter" validate:"option_letter"`
	Statement string `json:"statement" validate:"max=1000"`
	Value     *bool  `json:"value"`
	Index     *int   `json:"index" validate:"omitempty,gte=0"`
	Confirmed bool   `json:"confirmed"`
}

// ToCommand converts the request into an exam command. Fields a command
// needs but the request lacks are reported as validation errors.
func (r CommandRequest) ToCommand() (exam.Command, error) {
	letter := strings.ToUpper(strings.TrimSpace(r.Letter))
	missing := func(field string) error {
		return validator.ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("is required for %s", r.Type),
			Rule:    "required",
		}}
	}

	switch r.Type {
	case validator.CommandSelectAnswer:
		if letter == "" {
			return nil, missing("letter")
		}
		return exam.SelectAnswer{Letter: letter}, nil
	case validator.CommandToggleOption:
		if letter == "" {
			return nil, missing("letter")
		}
		return exam.ToggleOption{Letter: letter}, nil
	case validator.CommandMarkStatement:
		if r.Statement == "" {
			return nil, missing("statement")
		}
		if r.Value == nil {
			return nil, missing("value")
		}
		return exam.MarkStatement{Statement: r.Statement, Value: *r.Value}, nil
	case validator.CommandNavigate:
		if r.Index == nil {
			return nil, missing("index")
		}
		return exam.Navigate{Index: *r.Index}, nil
	case validator.CommandNext:
		return exam.Next{}, nil
	case validator.CommandPrev:
		return exam.Prev{}, nil
	case validator.CommandToggleDoubt:
		return exam.ToggleDoubt{}, nil
	case validator.CommandFinish:
		return exam.Finish{Confirmed: r.Confirmed}, nil
	}
	return nil, exam.ErrUnknownCommand
}

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
	validator   *validator.Validator
}

func NewExamHandler(
	examService services.ExamService,
	validator *validator.Validator,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
		validator:   validator,
	}
}

// StartSession starts an exam over the subject's active questions
// @Router /exams/{subject}/sessions [post]
func (h *ExamHandler) StartSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	subject := ParseStringIDParam(c, "subject")
	if subject == "" {
		return
	}

	h.LogRequest(c, "Starting exam session", "subject", subject)

	snap, err := h.examService.StartExam(c.Request.Context(), userID, subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Exam session started", snap, "session_key", snap.Key)
}

// GetSession returns the current snapshot of a session
// @Router /sessions/{key} [get]
func (h *ExamHandler) GetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	key := ParseStringIDParam(c, "key")
	if key == "" {
		return
	}

	snap, err := h.examService.GetSession(c.Request.Context(), userID, key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam session", Data: snap})
}

// DispatchCommand applies one student action
// @Router /sessions/{key}/commands [post]
func (h *ExamHandler) DispatchCommand(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	key := ParseStringIDParam(c, "key")
	if key == "" {
		return
	}

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	snap, err := h.examService.Dispatch(c.Request.Context(), userID, key, cmd)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Command applied", Data: snap})
}

// GetResult returns the score of a finished session
// @Router /sessions/{key}/result [get]
func (h *ExamHandler) GetResult(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	key := ParseStringIDParam(c, "key")
	if key == "" {
		return
	}

	result, err := h.examService.GetResult(c.Request.Context(), userID, key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam result", Data: result})
}

// ExportReport downloads the xlsx result report of a finished session
// @Router /sessions/{key}/report [get]
func (h *ExamHandler) ExportReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	key := ParseStringIDParam(c, "key")
	if key == "" {
		return
	}

	h.LogRequest(c, "Exporting exam report", "session_key", key)

	data, err := h.examService.ExportReport(c.Request.Context(), userID, key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="hasil-ujian-%s.xlsx"`, key))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ReviewSession reads a stored session back and scores its answers again
// @Router /history/sessions/{id}/answers [get]
func (h *ExamHandler) ReviewSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	review, err := h.examService.ReviewSession(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session review", Data: review})
}

// ListSessions lists the caller's stored attempts, newest first
// @Router /history/sessions [get]
func (h *ExamHandler) ListSessions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c)
	if !ok {
		return
	}

	sessions, err := h.examService.ListSessions(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam sessions", Data: sessions})
}

// GetMastery returns the chapter mastery of the caller's latest finished exam
// @Router /history/mastery [get]
func (h *ExamHandler) GetMastery(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	analytics, err := h.examService.GetMastery(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Chapter mastery", Data: analytics})
}

func (h *ExamHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	if cre, ok := exam.IsConfirmationRequired(err); ok {
		h.RespondWithError(c, http.StatusConflict, "Unanswered questions remain, confirm to finish", err, map[string]interface{}{
			"unanswered": cre.Unanswered,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNoQuestions):
		h.RespondWithError(c, http.StatusNotFound, "No questions are available for this exam yet", err)
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Exam session not found", err)
	case errors.Is(err, exam.ErrSessionClosed):
		h.RespondWithError(c, http.StatusConflict, "Exam session is already finished", err)
	case errors.Is(err, services.ErrSessionInProgress):
		h.RespondWithError(c, http.StatusConflict, "Exam session is still in progress", err)
	case errors.Is(err, services.ErrServiceShuttingDown):
		h.RespondWithError(c, http.StatusServiceUnavailable, "Service is shutting down", err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
