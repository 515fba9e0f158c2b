package repositories

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// ErrObjectNotFound is returned by stores for a missing key
var ErrObjectNotFound = errors.New("object not found")

// Object is an opened blob ready for ranged reads
type Object struct {
	Body        io.ReadSeekCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// AudioStore keeps uploaded audio bytes
type AudioStore interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	OpenObject(ctx context.Context, key string) (*Object, error)
	// ObjectURL returns a public URL for key, or "" when objects are not publicly reachable
	ObjectURL(key string) string
}

// BlobStore is a key-addressed get/put store without transactions
type BlobStore interface {
	AudioStore
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// MemoRepository persists one JSON document per memo
type MemoRepository interface {
	Get(ctx context.Context, id string) (*entities.Memo, error)
	Put(ctx context.Context, memo *entities.Memo) error
}

// CommentMutation receives the current list and returns the next one and whether it changed
type CommentMutation func(current entities.Comments) (next entities.Comments, changed bool, err error)

// CommentRepository persists one JSON comment list per memo
type CommentRepository interface {
	List(ctx context.Context, memoID string) (entities.Comments, error)
	// Update runs mutate under the memo's lock and writes the result when it changed
	Update(ctx context.Context, memoID string, mutate CommentMutation) (entities.Comments, error)
}

// Locker serializes work on one key
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
