package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/errors"
	"github.com/johnquangdev/voice-memo/internal/adapter/dto/memo"
	aiuse "github.com/johnquangdev/voice-memo/internal/usecase/ai"
)

// AIController handles API endpoints backed by the language model
type AIController struct {
	svc    aiuse.Service
	logger *zap.Logger
}

// NewAIController creates a new AI controller
func NewAIController(svc aiuse.Service, logger *zap.Logger) *AIController {
	return &AIController{svc: svc, logger: logger}
}

// Ask answers a question from a memo's transcript
// @Summary      Ask about a memo
// @Description  Answers a question using only the memo's transcript
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Memo ID"
// @Param        request  body      memo.AskRequest  true  "Question"
// @Success      200      {object}  memo.AskResponse
// @Failure      400      {object}  common.ErrorResponse  "Empty question"
// @Failure      404      {object}  common.ErrorResponse  "Memo not found"
// @Failure      409      {object}  common.ErrorResponse  "Transcript not ready"
// @Failure      429      {object}  common.ErrorResponse  "Too many requests"
// @Failure      503      {object}  common.ErrorResponse  "Question answering not configured"
// @Router       /api/memos/{id}/ask [post]
func (ac *AIController) Ask(c echo.Context) error {
	var req memo.AskRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, err)
	}

	answer, err := ac.svc.Ask(c.Request().Context(), c.Param("id"), req.Question)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, http.StatusOK, memo.AskResponse{Answer: answer})
}
