package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
)

// commentRepository implements the CommentRepository interface.
// Unlike memo reads, an unconfigured or unreachable store is reported as ErrStorageUnavailable.
type commentRepository struct {
	store  repositories.BlobStore
	locker repositories.Locker
	prefix string
	logger *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(store repositories.BlobStore, locker repositories.Locker, prefix string, logger *zap.Logger) repositories.CommentRepository {
	return &commentRepository{store: store, locker: locker, prefix: prefix, logger: logger}
}

// List returns the stored comments in stored order. A missing or malformed document is an empty list.
func (r *commentRepository) List(ctx context.Context, memoID string) (entities.Comments, error) {
	if r.store == nil {
		return nil, usecaseErrors.ErrStorageUnavailable
	}
	if !ValidMemoID(memoID) {
		return nil, usecaseErrors.ErrMemoNotFound
	}

	data, err := r.store.GetObject(ctx, CommentsKey(r.prefix, memoID))
	if err != nil {
		if errors.Is(err, repositories.ErrObjectNotFound) {
			return entities.Comments{}, nil
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorageUnavailable, err)
	}

	var comments entities.Comments
	if err := json.Unmarshal(data, &comments); err != nil {
		if r.logger != nil {
			r.logger.Warn("malformed comments document", zap.String("memo_id", memoID), zap.Error(err))
		}
		return entities.Comments{}, nil
	}
	if comments == nil {
		comments = entities.Comments{}
	}
	return comments, nil
}

// Update runs mutate against the current list while holding the memo's lock
func (r *commentRepository) Update(ctx context.Context, memoID string, mutate repositories.CommentMutation) (entities.Comments, error) {
	if r.store == nil {
		return nil, usecaseErrors.ErrStorageUnavailable
	}
	if !ValidMemoID(memoID) {
		return nil, usecaseErrors.ErrMemoNotFound
	}

	unlock, err := r.locker.Lock(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock comments of %s: %w", memoID, err)
	}
	defer unlock()

	current, err := r.List(ctx, memoID)
	if err != nil {
		return nil, err
	}

	next, changed, err := mutate(current)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode comments: %w", err)
	}
	key := CommentsKey(r.prefix, memoID)
	if err := r.store.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorageUnavailable, err)
	}
	return next, nil
}
