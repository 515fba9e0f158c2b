package ai

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/voice-memo/internal/adapter/repository"
	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	domainrepo "github.com/johnquangdev/voice-memo/internal/domain/repositories"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/storage"
	"github.com/johnquangdev/voice-memo/internal/usecase/comment"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
	"github.com/johnquangdev/voice-memo/pkg/config"
	"github.com/johnquangdev/voice-memo/pkg/jobcontext"
)

type fakeTranscriber struct {
	calls  atomic.Int32
	errs   []error // returned in order before succeeding
	result *pkgai.Transcription
	mu     sync.Mutex
	audio  []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader) (*pkgai.Transcription, error) {
	n := int(f.calls.Add(1))
	b, _ := io.ReadAll(audio)
	f.mu.Lock()
	f.audio = append(f.audio, string(b))
	f.mu.Unlock()
	if n <= len(f.errs) {
		return nil, f.errs[n-1]
	}
	return f.result, nil
}

type fakeChat struct {
	reply    string
	err      error
	messages [][]pkgai.Message
}

func (f *fakeChat) Complete(_ context.Context, messages []pkgai.Message) (string, error) {
	f.messages = append(f.messages, messages)
	return f.reply, f.err
}

func sec(v float64) *float64 { return &v }

func sampleTranscription() *pkgai.Transcription {
	return &pkgai.Transcription{
		Text: "We need to send the deck. Budget review is important!",
		Segments: []pkgai.Segment{
			{Start: sec(0), End: sec(2), Text: "We need to send the deck."},
			{Start: sec(6), End: sec(8), Text: "Budget review is important!"},
		},
	}
}

type fixture struct {
	store    *storage.MemoryStore
	memos    domainrepo.MemoRepository
	comments *comment.CommentService
	cfg      *config.Config
}

func newFixture() *fixture {
	store := storage.NewMemoryStore("")
	memos := repository.NewMemoRepository(store, "memos", nil)
	comments := comment.NewCommentService(memos, repository.NewCommentRepository(store, cache.NewMemoryLocker(), "memos", nil), nil)
	return &fixture{
		store:    store,
		memos:    memos,
		comments: comments,
		cfg: &config.Config{
			Assembly: config.AssemblyAIConfig{MaxAttempts: 3, RetryStep: time.Millisecond, MaxConcurrent: 2, Timeout: time.Minute},
			Groq:     config.GroqConfig{RefineTitles: true},
		},
	}
}

func (fx *fixture) newMemo(t *testing.T, id string, transcribing bool) *entities.Memo {
	t.Helper()
	memo := entities.NewMemo(id, id+".webm", "/api/memos/"+id+"/audio", "audio/webm", transcribing, time.Now())
	require.NoError(t, fx.memos.Put(context.Background(), memo))
	return memo
}

func waitTask(t *testing.T, task *Task) TaskState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := task.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return state
}

func TestIngestion_ReadyWithRetriesAndSmartComments(t *testing.T) {
	fx := newFixture()
	tr := &fakeTranscriber{
		errs:   []error{&pkgai.ProviderError{Provider: "test", Kind: pkgai.ErrorKindConnectionReset, Err: errors.New("reset")}},
		result: sampleTranscription(),
	}
	chat := &fakeChat{reply: "```json\n[\"Sending the Deck\", \"\"]\n```"}
	svc := NewAIService(fx.memos, fx.comments, tr, chat, fx.cfg, nil)

	task := svc.Start(fx.newMemo(t, "memo1", true), []byte("audio-bytes"))
	assert.Equal(t, TaskStateReady, waitTask(t, task))
	assert.NoError(t, task.Err())
	assert.Equal(t, int32(2), tr.calls.Load())
	assert.Equal(t, []string{"audio-bytes", "audio-bytes"}, tr.audio)

	memo, err := fx.memos.Get(context.Background(), "memo1")
	require.NoError(t, err)
	require.Equal(t, entities.TranscriptStatusReady, memo.Transcript.CurrentStatus())
	payload := memo.Transcript.Payload()
	assert.Len(t, payload.Words, 10)
	assert.Len(t, payload.Lines, 2)
	require.Len(t, payload.Chapters, 2)
	assert.Equal(t, "Sending the Deck", payload.Chapters[0].Title)
	assert.Equal(t, "Budget Review Is Important", payload.Chapters[1].Title) // empty reply keeps heuristic
	assert.Len(t, memo.Segments, 2)

	list, err := fx.comments.List(context.Background(), "memo1")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Contains(t, list[0].Text, "Action: ")

	require.NoError(t, svc.Shutdown(context.Background()))
}

func TestIngestion_FatalErrorMarksError(t *testing.T) {
	fx := newFixture()
	tr := &fakeTranscriber{errs: []error{
		&pkgai.ProviderError{Provider: "test", Kind: pkgai.ErrorKindFatal, Err: errors.New("bad audio")},
	}}
	svc := NewAIService(fx.memos, fx.comments, tr, nil, fx.cfg, nil)

	task := svc.Start(fx.newMemo(t, "memo2", true), []byte("x"))
	assert.Equal(t, TaskStateFailed, waitTask(t, task))
	assert.Equal(t, int32(1), tr.calls.Load())

	memo, err := fx.memos.Get(context.Background(), "memo2")
	require.NoError(t, err)
	assert.Equal(t, entities.TranscriptStatusError, memo.Transcript.CurrentStatus())
}

func TestIngestion_ExhaustedRetriesMarkError(t *testing.T) {
	fx := newFixture()
	transient := &pkgai.ProviderError{Provider: "test", Kind: pkgai.ErrorKindTimeout, Err: errors.New("timeout")}
	tr := &fakeTranscriber{errs: []error{transient, transient, transient, transient}}
	svc := NewAIService(fx.memos, fx.comments, tr, nil, fx.cfg, nil)

	task := svc.Start(fx.newMemo(t, "memo3", true), []byte("x"))
	assert.Equal(t, TaskStateFailed, waitTask(t, task))
	assert.Equal(t, int32(3), tr.calls.Load())
	assert.ErrorContains(t, task.Err(), "max attempts (3) exceeded")
}

// failingWriteStore fails the nth write of one key
type failingWriteStore struct {
	*storage.MemoryStore
	key    string
	failAt int32
	writes atomic.Int32
}

func (f *failingWriteStore) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if key == f.key && f.writes.Add(1) == f.failAt {
		return errors.New("connection reset by peer")
	}
	return f.MemoryStore.PutObject(ctx, key, reader, size, contentType)
}

func TestIngestion_ReadyWriteFailureMarksError(t *testing.T) {
	fx := newFixture()
	store := &failingWriteStore{MemoryStore: fx.store, key: repository.MemoKey("memos", "memo7"), failAt: 2}
	fx.memos = repository.NewMemoRepository(store, "memos", nil)
	svc := NewAIService(fx.memos, nil, &fakeTranscriber{result: sampleTranscription()}, nil, fx.cfg, nil)

	task := svc.Start(fx.newMemo(t, "memo7", true), []byte("x"))
	assert.Equal(t, TaskStateFailed, waitTask(t, task))
	assert.ErrorContains(t, task.Err(), "failed to save ready transcript")
	assert.Equal(t, int32(3), store.writes.Load())

	memo, err := fx.memos.Get(context.Background(), "memo7")
	require.NoError(t, err)
	assert.Equal(t, entities.TranscriptStatusError, memo.Transcript.CurrentStatus())
	assert.Empty(t, memo.Segments)
}

func TestJobFields(t *testing.T) {
	assert.Nil(t, jobFields(context.Background()))

	ctx, cancel := jobcontext.JobBegin(context.Background(), "memo8", jobTypeTranscription, time.Minute)
	defer cancel()
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range jobFields(ctx) {
		f.AddTo(enc)
	}
	jobID, ok := jobcontext.GetJobID(ctx)
	require.True(t, ok)
	assert.Equal(t, jobID.String(), enc.Fields["job_id"])
	assert.Equal(t, "transcription", enc.Fields["job_type"])
	assert.Equal(t, "memo8", enc.Fields["memo_id"])
	assert.Contains(t, enc.Fields, "elapsed")
}

func TestIngestion_LogsCarryJobMetadata(t *testing.T) {
	fx := newFixture()
	core, logs := observer.New(zap.InfoLevel)
	svc := NewAIService(fx.memos, nil, &fakeTranscriber{result: sampleTranscription()}, nil, fx.cfg, zap.New(core))

	task := svc.Start(fx.newMemo(t, "memo9", true), []byte("x"))
	require.Equal(t, TaskStateReady, waitTask(t, task))

	started := logs.FilterMessage("🎙️ Starting transcription").All()
	ready := logs.FilterMessage("✅ Transcript ready").All()
	require.Len(t, started, 1)
	require.Len(t, ready, 1)
	assert.Equal(t, "memo9", ready[0].ContextMap()["memo_id"])
	assert.NotEmpty(t, ready[0].ContextMap()["job_id"])
	assert.Equal(t, started[0].ContextMap()["job_id"], ready[0].ContextMap()["job_id"])
}

func TestIngestion_SkippedWithoutTranscriber(t *testing.T) {
	fx := newFixture()
	svc := NewAIService(fx.memos, fx.comments, nil, nil, fx.cfg, nil)
	assert.False(t, svc.CanTranscribe())

	task := svc.Start(fx.newMemo(t, "memo4", false), nil)
	assert.Equal(t, TaskStateSkipped, waitTask(t, task))

	memo, err := fx.memos.Get(context.Background(), "memo4")
	require.NoError(t, err)
	assert.Equal(t, entities.TranscriptStatusUnavailable, memo.Transcript.CurrentStatus())
}

func TestIngestion_TitleRefinementFailureKeepsHeuristic(t *testing.T) {
	fx := newFixture()
	tr := &fakeTranscriber{result: sampleTranscription()}
	chat := &fakeChat{err: errors.New("connection reset by peer")}
	svc := NewAIService(fx.memos, nil, tr, chat, fx.cfg, nil)

	task := svc.Start(fx.newMemo(t, "memo5", true), []byte("x"))
	require.Equal(t, TaskStateReady, waitTask(t, task))

	memo, err := fx.memos.Get(context.Background(), "memo5")
	require.NoError(t, err)
	chapters := memo.Transcript.Payload().Chapters
	assert.Equal(t, "We Need to Send", chapters[0].Title)
	require.Len(t, chat.messages, 1)
	assert.Contains(t, chat.messages[0][1].Content, "1. We need to send the deck.")
}

func TestShutdown_WaitsForTasks(t *testing.T) {
	fx := newFixture()
	tr := &fakeTranscriber{result: sampleTranscription()}
	svc := NewAIService(fx.memos, nil, tr, nil, fx.cfg, nil)

	tasks := make([]*Task, 0, 5)
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		tasks = append(tasks, svc.Start(fx.newMemo(t, id, true), []byte(id)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
	for _, task := range tasks {
		select {
		case <-task.Done():
			assert.Equal(t, TaskStateReady, task.State())
		default:
			t.Fatalf("task %s still running after shutdown", task.MemoID)
		}
	}
}

func TestAsk(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	tr := &fakeTranscriber{result: sampleTranscription()}
	chat := &fakeChat{reply: "The deck."}
	fx.cfg.Groq.RefineTitles = false
	svc := NewAIService(fx.memos, nil, tr, chat, fx.cfg, nil)

	_, err := svc.Ask(ctx, "memo6", "  ")
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	_, err = svc.Ask(ctx, "unknown", "what?")
	assert.ErrorIs(t, err, usecaseErrors.ErrMemoNotFound)

	memo := fx.newMemo(t, "memo6", true)
	_, err = svc.Ask(ctx, "memo6", "what?")
	assert.ErrorIs(t, err, usecaseErrors.ErrTranscriptNotReady)

	waitTask(t, svc.Start(memo, []byte("x")))

	answer, err := svc.Ask(ctx, "memo6", "What needs sending?")
	require.NoError(t, err)
	assert.Equal(t, "The deck.", answer)
	require.Len(t, chat.messages, 1)
	assert.Equal(t, askSystemPrompt, chat.messages[0][0].Content)
	assert.Contains(t, chat.messages[0][1].Content, "Question: What needs sending?")
	assert.Contains(t, chat.messages[0][1].Content, "We need to send the deck.")

	noChat := NewAIService(fx.memos, nil, nil, nil, fx.cfg, nil)
	_, err = noChat.Ask(ctx, "memo6", "what?")
	assert.ErrorIs(t, err, usecaseErrors.ErrQAUnavailable)
}

func TestParseTitles(t *testing.T) {
	titles, err := ParseTitles("Here you go: [\"A\", \"B\"]")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles)

	titles, err = ParseTitles(`{"titles": ["One"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"One"}, titles)

	_, err = ParseTitles("no json here")
	assert.Error(t, err)
}

func TestMergeTitles_PerChapterFallback(t *testing.T) {
	fallback := []entities.Chapter{{Title: "One"}, {Title: "Two"}, {Title: "Three"}}

	out := MergeTitles(fallback, []string{"\"Launch plan overview for the whole team today.\"", "  "})

	assert.Equal(t, "Launch plan overview for the whole", out[0].Title)
	assert.Equal(t, "Two", out[1].Title)
	assert.Equal(t, "Three", out[2].Title)
	assert.Equal(t, "One", fallback[0].Title)
}
