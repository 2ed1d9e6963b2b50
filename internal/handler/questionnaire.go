package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/internal/service"
	"go.uber.org/zap"
)

// QuestionnaireHandler implements the registration questionnaire endpoints.
type QuestionnaireHandler struct {
	service  *service.QuestionnaireService
	sessions *repository.SessionRepository
	logger   *zap.Logger
}

// NewQuestionnaireHandler creates a new QuestionnaireHandler
func NewQuestionnaireHandler(
	service *service.QuestionnaireService,
	sessions *repository.SessionRepository,
	logger *zap.Logger,
) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type questionResponse struct {
	Question service.Question  `json:"question"`
	Index    int               `json:"index"`
	Total    int               `json:"total"`
	Answers  map[string]string `json:"answers"`
	AtLast   bool              `json:"atLast"`
}

// Start begins a fresh questionnaire for the logged-in citizen.
func (h *QuestionnaireHandler) Start(c *gin.Context) {
	flow := h.service.Start(c.GetString("subject"))
	c.JSON(http.StatusOK, h.state(flow))
}

// Current returns the active question and progress.
func (h *QuestionnaireHandler) Current(c *gin.Context) {
	flow := h.service.Flow(c.GetString("subject"))
	c.JSON(http.StatusOK, h.state(flow))
}

// Answer records the answer to the active question and advances.
func (h *QuestionnaireHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	flow := h.service.Flow(c.GetString("subject"))
	flow.SetAnswer(req.Answer)
	if err := flow.Next(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "ANSWER_REQUIRED",
			Message: "This question requires an answer",
		})
		return
	}

	c.JSON(http.StatusOK, h.state(flow))
}

// Previous steps back one question. Answers are preserved.
func (h *QuestionnaireHandler) Previous(c *gin.Context) {
	flow := h.service.Flow(c.GetString("subject"))
	flow.Previous()
	c.JSON(http.StatusOK, h.state(flow))
}

// Submit finalizes the questionnaire into a stored profile.
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	identity, err := h.sessions.Identity(c.Request.Context())
	if err != nil {
		h.logger.Error("no session identity for submit", zap.Error(err))
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "NO_SESSION",
			Message: "No active session",
		})
		return
	}

	profile, err := h.service.Submit(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrAnswerRequired) || errors.Is(err, service.ErrNotAtLastQuestion) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "INCOMPLETE_QUESTIONNAIRE",
				Message: "The questionnaire is not complete",
				Details: stringPtr(err.Error()),
			})
			return
		}
		h.logger.Error("failed to submit questionnaire", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to submit questionnaire",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *QuestionnaireHandler) state(flow *service.Flow) questionResponse {
	question, index := flow.Current()
	answers := make(map[string]string, flow.Total())
	for _, q := range service.Questions() {
		if a := flow.Answer(q.Key); a != "" {
			answers[q.Key] = a
		}
	}
	return questionResponse{
		Question: question,
		Index:    index,
		Total:    flow.Total(),
		Answers:  answers,
		AtLast:   flow.AtLast(),
	}
}
