package comment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
	"github.com/johnquangdev/voice-memo/internal/usecase/transcript"
)

// Service defines the interface for comment use case
type Service interface {
	// List returns the memo's comments ordered by creation time
	List(ctx context.Context, memoID string) (entities.Comments, error)

	// Threads returns the ordered list and the same comments grouped by parent
	Threads(ctx context.Context, memoID string) (entities.Comments, map[string]entities.Comments, error)

	// Post adds a user comment to an existing memo
	Post(ctx context.Context, input PostInput) (*entities.Comment, error)

	// React adds, removes or toggles a client's emoji reaction
	React(ctx context.Context, input ReactInput) (*entities.Comment, error)

	// MergeSmartComments appends extracted comments that are not stored yet and returns how many were added
	MergeSmartComments(ctx context.Context, memoID string, smart []transcript.SmartComment) (int, error)
}

// Ensure CommentService implements Service interface
var _ Service = (*CommentService)(nil)

// CommentService handles comment business logic
type CommentService struct {
	memoRepo    repositories.MemoRepository
	commentRepo repositories.CommentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(
	memoRepo repositories.MemoRepository,
	commentRepo repositories.CommentRepository,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		memoRepo:    memoRepo,
		commentRepo: commentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns the memo's comments ordered by creation time.
// Storage availability is checked before the memo lookup.
func (s *CommentService) List(ctx context.Context, memoID string) (entities.Comments, error) {
	comments, err := s.commentRepo.List(ctx, memoID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memoRepo.Get(ctx, memoID); err != nil {
		return nil, err
	}
	return comments.Sorted(), nil
}

// Threads returns the ordered list and its grouping by parent
func (s *CommentService) Threads(ctx context.Context, memoID string) (entities.Comments, map[string]entities.Comments, error) {
	comments, err := s.List(ctx, memoID)
	if err != nil {
		return nil, nil, err
	}
	return comments, comments.Thread(), nil
}

// PostInput represents input for posting a comment
type PostInput struct {
	MemoID    string
	Text      string
	ParentID  *string
	At        *float64
	Start     *float64
	End       *float64
	QuoteText string
	LineIndex *int
}

// anchor builds the comment anchor. A range wins over a point, and a line index is kept alongside either.
func (in PostInput) anchor() (entities.Anchor, error) {
	anchor := entities.NoAnchor()
	switch {
	case in.Start != nil:
		end := *in.Start
		if in.End != nil {
			end = *in.End
		}
		a, err := entities.RangeAnchor(*in.Start, end, in.QuoteText)
		if err != nil {
			return anchor, err
		}
		anchor = a
	case in.At != nil:
		anchor = entities.PointAnchor(*in.At)
	}
	if in.LineIndex != nil {
		if *in.LineIndex < 0 {
			return anchor, entities.ErrInvalidAnchor
		}
		anchor = anchor.WithLine(*in.LineIndex)
	}
	return anchor, nil
}

// Post adds a user comment to an existing memo
func (s *CommentService) Post(ctx context.Context, input PostInput) (*entities.Comment, error) {
	anchor, err := input.anchor()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	now := s.now()
	c, err := entities.NewComment(entities.NewID(now), input.Text, input.ParentID, anchor, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	if _, err := s.memoRepo.Get(ctx, input.MemoID); err != nil {
		return nil, err
	}

	_, err = s.commentRepo.Update(ctx, input.MemoID, func(current entities.Comments) (entities.Comments, bool, error) {
		if c.ParentID != nil && current.Index(*c.ParentID) < 0 && s.logger != nil {
			s.logger.Warn("comment parent not found",
				zap.String("memo_id", input.MemoID),
				zap.String("parent_id", *c.ParentID),
			)
		}
		next := make(entities.Comments, 0, len(current)+1)
		next = append(next, current...)
		return append(next, c), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("comment posted",
			zap.String("memo_id", input.MemoID),
			zap.String("comment_id", c.ID),
			zap.String("anchor_kind", string(c.Anchor.Kind())),
		)
	}
	return &c, nil
}

// ReactInput represents input for a reaction change
type ReactInput struct {
	MemoID    string
	CommentID string
	Emoji     string
	ClientID  string
	Action    entities.ReactionAction
}

// React adds, removes or toggles a client's emoji reaction
func (s *CommentService) React(ctx context.Context, input ReactInput) (*entities.Comment, error) {
	emoji := strings.TrimSpace(input.Emoji)
	clientID := strings.TrimSpace(input.ClientID)
	if emoji == "" || clientID == "" {
		return nil, fmt.Errorf("%w: emoji and clientId are required", usecaseErrors.ErrInvalidInput)
	}

	var updated entities.Comment
	_, err := s.commentRepo.Update(ctx, input.MemoID, func(current entities.Comments) (entities.Comments, bool, error) {
		idx := current.Index(input.CommentID)
		if idx < 0 {
			return nil, false, usecaseErrors.ErrCommentNotFound
		}

		next := make(entities.Comments, len(current))
		copy(next, current)
		target := next[idx]
		target.Reactions = maps.Clone(target.Reactions)
		changed := target.React(emoji, clientID, input.Action)
		next[idx] = target
		updated = target
		return next, changed, nil
	})
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrCommentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save reaction: %w", err)
	}
	return &updated, nil
}

// smartKey is the de-duplication key of a stored or extracted comment
func smartKey(lineIndex int, hasLine bool, text string) string {
	idx := ""
	if hasLine {
		idx = strconv.Itoa(lineIndex)
	}
	return idx + "|" + strings.ToLower(text)
}

// MergeSmartComments appends extracted comments that are not stored yet.
// The list is written only when it grew.
func (s *CommentService) MergeSmartComments(ctx context.Context, memoID string, smart []transcript.SmartComment) (int, error) {
	if len(smart) == 0 {
		return 0, nil
	}

	added := 0
	_, err := s.commentRepo.Update(ctx, memoID, func(current entities.Comments) (entities.Comments, bool, error) {
		seen := make(map[string]bool, len(current))
		for _, c := range current {
			idx, ok := c.Anchor.LineIndex()
			seen[smartKey(idx, ok, c.Text)] = true
		}

		now := s.now()
		next := make(entities.Comments, 0, len(current)+len(smart))
		next = append(next, current...)
		for _, sc := range smart {
			key := smartKey(sc.LineIndex, true, sc.Text)
			if seen[key] {
				continue
			}
			seen[key] = true

			anchor := entities.PointAnchor(sc.At).WithLine(sc.LineIndex)
			c, err := entities.NewComment(entities.NewID(now), sc.Text, nil, anchor, now)
			if err != nil {
				continue
			}
			next = append(next, c)
			added++
		}
		return next, added > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to merge smart comments: %w", err)
	}
	return added, nil
}
