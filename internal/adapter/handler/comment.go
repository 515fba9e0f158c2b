package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/errors"
	"github.com/johnquangdev/voice-memo/internal/adapter/dto/comment"
	"github.com/johnquangdev/voice-memo/internal/adapter/presenter"
	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	commentuse "github.com/johnquangdev/voice-memo/internal/usecase/comment"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
)

// Comment handles comment and reaction requests
type Comment struct {
	comments commentuse.Service
	memos    memouse.Service
	logger   *zap.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments commentuse.Service, memos memouse.Service, logger *zap.Logger) *Comment {
	return &Comment{
		comments: comments,
		memos:    memos,
		logger:   logger,
	}
}

// lines returns the ready transcript lines used to resolve line anchors, or nil
func (h *Comment) lines(ctx context.Context, memoID string) []entities.Line {
	t, err := h.memos.Transcript(ctx, memoID)
	if err != nil {
		return nil
	}
	if p := t.Payload(); p != nil {
		return p.Lines
	}
	return nil
}

// ListComments handles GET /memos/:id/comments
// @Summary      List a memo's comments
// @Description  Comments sorted by creation time. threaded=1 adds the grouping by parent id ("" for roots).
// @Tags         Comments
// @Produce      json
// @Param        id        path      string  true   "Memo ID"
// @Param        threaded  query     string  false  "1 to include threads"
// @Success      200       {object}  comment.ListCommentsResponse
// @Failure      404       {object}  common.ErrorResponse  "Memo not found"
// @Failure      503       {object}  common.ErrorResponse  "Comment storage not configured"
// @Router       /api/memos/{id}/comments [get]
func (h *Comment) ListComments(c echo.Context) error {
	var req comment.ListCommentsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	memoID := c.Param("id")

	var (
		list    entities.Comments
		threads map[string]entities.Comments
		err     error
	)
	if req.WantsThreads() {
		list, threads, err = h.comments.Threads(ctx, memoID)
	} else {
		list, err = h.comments.List(ctx, memoID)
	}
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToListCommentsResponse(list, threads, h.lines(ctx, memoID)))
}

// CreateComment handles POST /memos/:id/comments
// @Summary      Comment on a memo
// @Description  Anchors to a range when start is set, else to a point, optionally with a transcript line
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Memo ID"
// @Param        request  body      comment.CreateCommentRequest  true  "Comment"
// @Success      200      {object}  comment.CommentEnvelope
// @Failure      400      {object}  common.ErrorResponse  "Empty text or invalid anchor"
// @Failure      404      {object}  common.ErrorResponse  "Memo not found"
// @Failure      503      {object}  common.ErrorResponse  "Comment storage not configured"
// @Router       /api/memos/{id}/comments [post]
func (h *Comment) CreateComment(c echo.Context) error {
	var req comment.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	memoID := c.Param("id")
	created, err := h.comments.Post(ctx, commentuse.PostInput{
		MemoID:    memoID,
		Text:      req.Text,
		ParentID:  req.ParentID,
		At:        req.At,
		Start:     req.Start,
		End:       req.End,
		QuoteText: req.QuoteText,
		LineIndex: req.LineIndex,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("💬 Comment posted",
			zap.String("memo_id", memoID),
			zap.String("comment_id", created.ID),
			zap.String("anchor_kind", string(created.Anchor.Kind())),
		)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToCommentEnvelope(created, h.lines(ctx, memoID)))
}

// React handles POST /memos/:id/comments/:commentId/reactions
// @Summary      React to a comment
// @Description  Adds or removes the client's emoji reaction. Without action the reaction is toggled.
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id         path      string                   true  "Memo ID"
// @Param        commentId  path      string                   true  "Comment ID"
// @Param        request    body      comment.ReactionRequest  true  "Reaction"
// @Success      200        {object}  comment.CommentEnvelope
// @Failure      400        {object}  common.ErrorResponse  "Missing emoji or clientId"
// @Failure      404        {object}  common.ErrorResponse  "Comment not found"
// @Failure      503        {object}  common.ErrorResponse  "Comment storage not configured"
// @Router       /api/memos/{id}/comments/{commentId}/reactions [post]
func (h *Comment) React(c echo.Context) error {
	var req comment.ReactionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	memoID := c.Param("id")
	updated, err := h.comments.React(ctx, commentuse.ReactInput{
		MemoID:    memoID,
		CommentID: c.Param("commentId"),
		Emoji:     req.Emoji,
		ClientID:  req.ClientID,
		Action:    entities.ReactionAction(req.Action),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToCommentEnvelope(updated, h.lines(ctx, memoID)))
}
