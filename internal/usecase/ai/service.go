package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	domainrepo "github.com/johnquangdev/voice-memo/internal/domain/repositories"
	"github.com/johnquangdev/voice-memo/internal/usecase/transcript"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
	"github.com/johnquangdev/voice-memo/pkg/config"
	"github.com/johnquangdev/voice-memo/pkg/jobcontext"
)

const jobTypeTranscription = "transcription"

// Transcriber turns audio into provider segments
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (*pkgai.Transcription, error)
}

// ChatCompleter answers a chat prompt
type ChatCompleter interface {
	Complete(ctx context.Context, messages []pkgai.Message) (string, error)
}

// CommentMerger persists extracted smart comments
type CommentMerger interface {
	MergeSmartComments(ctx context.Context, memoID string, smart []transcript.SmartComment) (int, error)
}

// Service defines AI orchestration methods
type Service interface {
	// CanTranscribe reports whether a transcription provider is configured
	CanTranscribe() bool

	// CanAnswer reports whether a chat provider is configured
	CanAnswer() bool

	// Start runs the ingestion of a freshly uploaded memo in the background
	Start(memo *entities.Memo, audio []byte) *Task

	// Ask answers a question from the memo's transcript only
	Ask(ctx context.Context, memoID, question string) (string, error)

	// Shutdown waits for running ingestions, cancelling them when ctx ends
	Shutdown(ctx context.Context) error
}

type aiService struct {
	memoRepo     domainrepo.MemoRepository
	comments     CommentMerger
	transcriber  Transcriber
	chat         ChatCompleter
	logger       *zap.Logger
	maxAttempts  int
	retryStep    time.Duration
	timeout      time.Duration
	refineTitles bool

	slots  chan struct{} // limits concurrent transcriptions
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAIService constructs a new AI service. transcriber and chat may be nil.
func NewAIService(
	memoRepo domainrepo.MemoRepository,
	comments CommentMerger,
	transcriber Transcriber,
	chat ChatCompleter,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	maxConcurrent := cfg.Assembly.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	timeout := cfg.Assembly.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &aiService{
		memoRepo:     memoRepo,
		comments:     comments,
		transcriber:  transcriber,
		chat:         chat,
		logger:       logger,
		maxAttempts:  cfg.Assembly.MaxAttempts,
		retryStep:    cfg.Assembly.RetryStep,
		timeout:      timeout,
		refineTitles: cfg.Groq.RefineTitles,
		slots:        make(chan struct{}, maxConcurrent),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (s *aiService) CanTranscribe() bool { return s.transcriber != nil }

func (s *aiService) CanAnswer() bool { return s.chat != nil }

// Start runs the ingestion detached from the caller. The memo must be in the processing state
// and is owned by the task from here on.
func (s *aiService) Start(memo *entities.Memo, audio []byte) *Task {
	if s.transcriber == nil || memo.Transcript.CurrentStatus().IsTerminal() {
		return finishedTask(memo.ID, TaskStateSkipped, nil)
	}

	task := newTask(memo.ID)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(task, memo, audio)
	}()
	return task
}

func (s *aiService) run(task *Task, memo *entities.Memo, audio []byte) {
	// Acquire a transcription slot, or give up when shutting down
	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-s.ctx.Done():
		s.fail(s.ctx, task, memo, s.ctx.Err())
		return
	}
	task.set(TaskStateTranscribing)

	jobCtx, cancel := jobcontext.JobBegin(s.ctx, memo.ID, jobTypeTranscription, s.timeout)
	defer cancel()
	jobCtx = jobcontext.SetRetryPolicy(jobCtx, s.maxAttempts, s.retryStep)

	if s.logger != nil {
		s.logger.Info("🎙️ Starting transcription", append(jobFields(jobCtx),
			zap.Int("audio_bytes", len(audio)),
			zap.Int("max_attempts", jobcontext.GetMaxAttempts(jobCtx)),
		)...)
	}

	var result *pkgai.Transcription
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		t, err := s.transcriber.Transcribe(ctx, bytes.NewReader(audio))
		if err != nil {
			return err
		}
		result = t
		return nil
	}, func(err error, wait time.Duration) {
		if s.logger != nil {
			s.logger.Warn("⚠️ Transcription attempt failed, retrying", append(jobFields(jobCtx),
				zap.String("error_kind", pkgai.Classify(err).String()),
				zap.Duration("backoff", wait),
				zap.Error(err),
			)...)
		}
	})
	if err != nil {
		s.fail(jobCtx, task, memo, err)
		return
	}

	segments := toSegments(result.Segments)
	payload, drafts := transcript.Derive(result.Text, segments)
	if s.refineTitles && s.chat != nil && len(drafts) > 0 {
		payload.Chapters = s.refineChapterTitles(jobCtx, drafts, payload.Chapters)
	}

	// memo keeps its processing state until the ready document is stored,
	// so a failed write can still be recorded as an error
	ready := *memo
	if err := ready.MarkReady(segments, payload); err != nil {
		s.fail(jobCtx, task, memo, err)
		return
	}
	if err := s.memoRepo.Put(s.ctx, &ready); err != nil {
		s.fail(jobCtx, task, memo, fmt.Errorf("failed to save ready transcript: %w", err))
		return
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcript ready", append(jobFields(jobCtx),
			zap.Int("words", len(payload.Words)),
			zap.Int("lines", len(payload.Lines)),
			zap.Int("chapters", len(payload.Chapters)),
		)...)
	}

	s.mergeSmartComments(memo.ID, payload.Lines)
	task.finish(TaskStateReady, nil)
}

// fail records the error state. Nothing is returned to any caller.
func (s *aiService) fail(ctx context.Context, task *Task, memo *entities.Memo, cause error) {
	if s.logger != nil {
		fields := jobFields(ctx)
		if len(fields) == 0 {
			fields = append(fields, zap.String("memo_id", memo.ID))
		}
		s.logger.Error("❌ Transcription failed", append(fields,
			zap.String("error_kind", pkgai.Classify(cause).String()),
			zap.Error(cause),
		)...)
	}

	if err := memo.MarkFailed(); err == nil {
		// use a fresh context so the error state is written even during shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.memoRepo.Put(ctx, memo); err != nil && s.logger != nil {
			s.logger.Error("❌ Failed to save error state",
				zap.String("memo_id", memo.ID),
				zap.Error(err),
			)
		}
	}
	task.finish(TaskStateFailed, cause)
}

// mergeSmartComments is best effort. Failures are logged and swallowed.
func (s *aiService) mergeSmartComments(memoID string, lines []entities.Line) {
	if s.comments == nil || len(lines) == 0 {
		return
	}
	smart := transcript.ExtractSmartComments(lines)
	if len(smart) == 0 {
		return
	}

	added, err := s.comments.MergeSmartComments(s.ctx, memoID, smart)
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Warn("⚠️ Failed to merge smart comments",
			zap.String("memo_id", memoID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("💬 Smart comments merged",
		zap.String("memo_id", memoID),
		zap.Int("candidates", len(smart)),
		zap.Int("added", added),
	)
}

// Shutdown waits for running ingestions. When ctx ends first they are cancelled
// and recorded as failed.
func (s *aiService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return fmt.Errorf("ingestion drain interrupted: %w", ctx.Err())
	}
}

// jobFields describes the running job for logs. It is empty outside a job.
func jobFields(ctx context.Context) []zap.Field {
	if _, ok := jobcontext.GetJobID(ctx); !ok {
		return nil
	}
	meta := jobcontext.GetJobMetadata(ctx)
	return []zap.Field{
		zap.String("job_id", meta.JobID.String()),
		zap.String("job_type", meta.JobType),
		zap.String("memo_id", meta.MemoID),
		zap.Duration("elapsed", time.Since(meta.StartTime)),
	}
}

func toSegments(in []pkgai.Segment) []entities.Segment {
	out := make([]entities.Segment, len(in))
	for i, seg := range in {
		out[i] = entities.Segment{
			Start:   seg.Start,
			End:     seg.End,
			Text:    seg.Text,
			Speaker: seg.Speaker,
		}
	}
	return out
}
