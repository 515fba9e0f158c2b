package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
)

// memoReadTimeout bounds a shared memo read, which outlives the caller that started it
const memoReadTimeout = 10 * time.Second

var memoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidMemoID reports whether id is safe to use inside a storage key
func ValidMemoID(id string) bool {
	return memoIDPattern.MatchString(id)
}

// MemoKey is the storage key of a memo document
func MemoKey(prefix, id string) string {
	return path.Join(prefix, id+".json")
}

// CommentsKey is the storage key of a memo's comment list
func CommentsKey(prefix, id string) string {
	return path.Join(prefix, id+".comments.json")
}

// memoRepository implements the MemoRepository interface
type memoRepository struct {
	store  repositories.BlobStore
	prefix string
	logger *zap.Logger
	reads  singleflight.Group
}

// NewMemoRepository creates a new memo repository. store may be nil when no object store is configured.
func NewMemoRepository(store repositories.BlobStore, prefix string, logger *zap.Logger) repositories.MemoRepository {
	return &memoRepository{store: store, prefix: prefix, logger: logger}
}

// Get loads a memo. Missing, malformed and unreadable documents all read as not found.
func (r *memoRepository) Get(ctx context.Context, id string) (*entities.Memo, error) {
	if r.store == nil || !ValidMemoID(id) {
		return nil, usecaseErrors.ErrMemoNotFound
	}

	key := MemoKey(r.prefix, id)
	// The read is shared between callers, so it must not end with the first caller's context
	ch := r.reads.DoChan(key, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), memoReadTimeout)
		defer cancel()
		return r.store.GetObject(readCtx, key)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	v, err := res.Val, res.Err
	if err != nil {
		if !errors.Is(err, repositories.ErrObjectNotFound) && r.logger != nil {
			r.logger.Warn("memo read failed", zap.String("memo_id", id), zap.Error(err))
		}
		return nil, usecaseErrors.ErrMemoNotFound
	}

	var memo entities.Memo
	if err := json.Unmarshal(v.([]byte), &memo); err != nil {
		if r.logger != nil {
			r.logger.Warn("malformed memo document", zap.String("memo_id", id), zap.Error(err))
		}
		return nil, usecaseErrors.ErrMemoNotFound
	}
	if memo.Transcript == nil {
		memo.Transcript = entities.ProcessingTranscript()
	}
	return &memo, nil
}

// Put overwrites the memo document
func (r *memoRepository) Put(ctx context.Context, memo *entities.Memo) error {
	if r.store == nil {
		return usecaseErrors.ErrStorageUnavailable
	}
	if !ValidMemoID(memo.ID) {
		return fmt.Errorf("memo id %q: %w", memo.ID, usecaseErrors.ErrInvalidInput)
	}

	data, err := json.Marshal(memo)
	if err != nil {
		return fmt.Errorf("failed to encode memo: %w", err)
	}

	key := MemoKey(r.prefix, memo.ID)
	if err := r.store.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return fmt.Errorf("failed to save memo %s: %w", memo.ID, err)
	}
	return nil
}
