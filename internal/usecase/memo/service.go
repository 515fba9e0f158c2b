package memo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	"github.com/johnquangdev/voice-memo/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
)

const (
	defaultExtension   = "webm"
	defaultContentType = "audio/webm"
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// Service defines the interface for memo use case
type Service interface {
	// Upload stores the audio, creates the memo record and starts transcription
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)

	// Get returns the memo record
	Get(ctx context.Context, id string) (*entities.Memo, error)

	// Transcript returns the memo's transcript in its current state
	Transcript(ctx context.Context, id string) (*entities.Transcript, error)

	// OpenAudio opens the memo's audio for ranged reads. The caller closes Body.
	OpenAudio(ctx context.Context, id string) (*repositories.Object, error)
}

// Ensure MemoService implements Service interface
var _ Service = (*MemoService)(nil)

// Options holds the memo service settings
type Options struct {
	Prefix       string // object key prefix for audio and documents
	ShareBaseURL string
}

// MemoService handles memo business logic
type MemoService struct {
	memoRepo repositories.MemoRepository
	blobs    repositories.AudioStore // nil when no object store is configured
	local    repositories.AudioStore // fallback for audio without an object store
	ingest   ai.Service
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewMemoService creates a new memo service. blobs may be nil.
func NewMemoService(
	memoRepo repositories.MemoRepository,
	blobs repositories.AudioStore,
	local repositories.AudioStore,
	ingest ai.Service,
	opts Options,
	logger *zap.Logger,
) *MemoService {
	return &MemoService{
		memoRepo: memoRepo,
		blobs:    blobs,
		local:    local,
		ingest:   ingest,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// UploadInput represents an uploaded audio file
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadOutput is returned to the uploader before transcription starts
type UploadOutput struct {
	Memo     *entities.Memo
	ShareURL string
	Task     *ai.Task
}

// extension returns the lowercased extension of name, or webm
func extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !extensionPattern.MatchString(ext) {
		return defaultExtension
	}
	return ext
}

// audioKey is the object key of a memo's audio
func (s *MemoService) audioKey(filename string) string {
	return path.Join(s.opts.Prefix, filename)
}

// Upload stores the audio, creates the memo record and starts transcription.
// It returns before transcription finishes.
func (s *MemoService) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: file is required", usecaseErrors.ErrInvalidInput)
	}

	now := s.now()
	id := entities.NewID(now)
	filename := id + "." + extension(input.Filename)
	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = defaultContentType
	}

	url, err := s.storeAudio(ctx, id, filename, contentType, input.Data)
	if err != nil {
		return nil, err
	}

	memo := entities.NewMemo(id, filename, url, contentType, s.ingest.CanTranscribe(), now)
	persisted := true
	if err := s.memoRepo.Put(ctx, memo); err != nil {
		if !errors.Is(err, usecaseErrors.ErrStorageUnavailable) {
			return nil, fmt.Errorf("failed to save memo: %w", err)
		}
		persisted = false
		if s.logger != nil {
			s.logger.Warn("⚠️ No document store configured, memo record not saved",
				zap.String("memo_id", id),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("📥 Memo uploaded",
			zap.String("memo_id", id),
			zap.String("filename", filename),
			zap.Int("bytes", len(input.Data)),
			zap.String("transcript_status", string(memo.Transcript.CurrentStatus())),
		)
	}

	// Nothing could observe the result of an unsaved memo
	var task *ai.Task
	if persisted {
		task = s.ingest.Start(memo, input.Data)
	}

	return &UploadOutput{
		Memo:     memo,
		ShareURL: strings.TrimRight(s.opts.ShareBaseURL, "/") + "/s/" + id,
		Task:     task,
	}, nil
}

// storeAudio writes the audio to the object store, or to local disk without one, and returns its URL
func (s *MemoService) storeAudio(ctx context.Context, id, filename, contentType string, data []byte) (string, error) {
	if s.blobs != nil {
		key := s.audioKey(filename)
		if err := s.blobs.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return "", fmt.Errorf("%w: %v", usecaseErrors.ErrStorageUnavailable, err)
		}
		if url := s.blobs.ObjectURL(key); url != "" {
			return url, nil
		}
		return "/api/memos/" + id + "/audio", nil
	}

	if s.local == nil {
		return "", usecaseErrors.ErrStorageUnavailable
	}
	if err := s.local.PutObject(ctx, filename, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	return s.local.ObjectURL(filename), nil
}

// Get returns the memo record
func (s *MemoService) Get(ctx context.Context, id string) (*entities.Memo, error) {
	return s.memoRepo.Get(ctx, id)
}

// Transcript returns the memo's transcript in its current state
func (s *MemoService) Transcript(ctx context.Context, id string) (*entities.Transcript, error) {
	memo, err := s.memoRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if memo.Transcript == nil {
		return entities.ProcessingTranscript(), nil
	}
	return memo.Transcript, nil
}

// OpenAudio opens the memo's audio from the object store, falling back to local disk
func (s *MemoService) OpenAudio(ctx context.Context, id string) (*repositories.Object, error) {
	memo, err := s.memoRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.blobs != nil {
		obj, err := s.blobs.OpenObject(ctx, s.audioKey(memo.Filename))
		if err == nil {
			return s.withContentType(obj, memo), nil
		}
		if !errors.Is(err, repositories.ErrObjectNotFound) && s.logger != nil {
			s.logger.Warn("audio read failed", zap.String("memo_id", id), zap.Error(err))
		}
	}

	if s.local != nil {
		obj, err := s.local.OpenObject(ctx, memo.Filename)
		if err == nil {
			return s.withContentType(obj, memo), nil
		}
	}
	return nil, fmt.Errorf("audio of %s: %w", id, usecaseErrors.ErrNotFound)
}

func (s *MemoService) withContentType(obj *repositories.Object, memo *entities.Memo) *repositories.Object {
	if obj.ContentType == "" || obj.ContentType == "application/octet-stream" {
		obj.ContentType = memo.ContentType
	}
	if obj.ContentType == "" {
		obj.ContentType = defaultContentType
	}
	return obj
}
