package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/voice-memo/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-memo/internal/adapter/repository"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/storage"
	"github.com/johnquangdev/voice-memo/internal/usecase/ai"
	"github.com/johnquangdev/voice-memo/internal/usecase/comment"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
	"github.com/johnquangdev/voice-memo/pkg/config"
	"github.com/johnquangdev/voice-memo/pkg/validator"
)

type serverOptions struct {
	noStore     bool
	transcriber ai.Transcriber
	chat        ai.ChatCompleter
	maxUpload   int64
	askPerMin   int
}

type gatedTranscriber struct {
	release chan struct{}
	once    sync.Once
}

func newGatedTranscriber() *gatedTranscriber {
	return &gatedTranscriber{release: make(chan struct{})}
}

func (g *gatedTranscriber) Open() {
	g.once.Do(func() { close(g.release) })
}

func (g *gatedTranscriber) Transcribe(ctx context.Context, _ io.Reader) (*pkgai.Transcription, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	start, end := 0.0, 4.0
	return &pkgai.Transcription{
		Text:     "Remember to call the venue tomorrow morning.",
		Segments: []pkgai.Segment{{Start: &start, End: &end, Text: "Remember to call the venue tomorrow morning."}},
	}, nil
}

type cannedChat struct{ answer string }

func (c cannedChat) Complete(context.Context, []pkgai.Message) (string, error) {
	return c.answer, nil
}

func newTestServer(t *testing.T, opts serverOptions) *echo.Echo {
	t.Helper()

	if opts.maxUpload == 0 {
		opts.maxUpload = 1 << 20
	}
	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:    "test",
			ShareBaseURL:   "http://share.test/",
			UploadsDir:     t.TempDir(),
			MaxUploadBytes: opts.maxUpload,
			AskRatePerMin:  opts.askPerMin,
		},
		Assembly: config.AssemblyAIConfig{MaxAttempts: 1, MaxConcurrent: 2, Timeout: time.Minute},
	}

	var (
		blobs repositories.BlobStore
		audio repositories.AudioStore
	)
	if !opts.noStore {
		store := storage.NewMemoryStore("")
		blobs, audio = store, store
	}

	memoRepo := repository.NewMemoRepository(blobs, "memos", nil)
	commentRepo := repository.NewCommentRepository(blobs, cache.NewMemoryLocker(), "memos", nil)
	commentSvc := comment.NewCommentService(memoRepo, commentRepo, nil)
	aiSvc := ai.NewAIService(memoRepo, commentSvc, opts.transcriber, opts.chat, cfg, nil)
	t.Cleanup(func() {
		if g, ok := opts.transcriber.(*gatedTranscriber); ok {
			g.Open()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = aiSvc.Shutdown(ctx)
	})

	local, err := storage.NewLocalDisk(cfg.Server.UploadsDir)
	require.NoError(t, err)
	memoSvc := memouse.NewMemoService(memoRepo, audio, local, aiSvc, memouse.Options{
		Prefix:       "memos",
		ShareBaseURL: cfg.Server.ShareBaseURL,
	}, nil)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(nil)
	NewRouter(cfg,
		NewMemoHandler(memoSvc, cfg.Server.MaxUploadBytes, nil),
		NewCommentHandler(commentSvc, memoSvc, nil),
		NewAIController(aiSvc, nil),
		common.Capabilities{Storage: !opts.noStore, Transcription: aiSvc.CanTranscribe(), QA: aiSvc.CanAnswer(), Locking: "memory"},
	).Setup(e)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func upload(t *testing.T, e *echo.Echo, data []byte) string {
	t.Helper()
	rec := serve(e, uploadRequest(t, "memo.webm", data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id, _ := decode(t, rec)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestUpload_ThenGetMemo(t *testing.T) {
	e := newTestServer(t, serverOptions{})

	rec := serve(e, uploadRequest(t, "memo.webm", []byte("audio")))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	id := body["id"].(string)
	assert.Equal(t, "/api/memos/"+id+"/audio", body["url"])
	assert.Equal(t, "http://share.test/s/"+id, body["shareUrl"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	memo := decode(t, rec)
	assert.Equal(t, id, memo["id"])
	assert.Equal(t, "audio/webm", memo["contentType"])

	// Without a transcriber the transcript is unavailable, never processing
	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode(t, rec)["status"])
}

func TestUpload_Errors(t *testing.T) {
	e := newTestServer(t, serverOptions{maxUpload: 16})

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode(t, rec)["code"])

	rec = serve(e, uploadRequest(t, "big.webm", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode(t, rec)["code"])
}

func TestUpload_LocalFallback(t *testing.T) {
	e := newTestServer(t, serverOptions{noStore: true})

	rec := serve(e, uploadRequest(t, "clip.ogg", []byte("oggdata")))
	require.Equal(t, http.StatusOK, rec.Code)
	url := decode(t, rec)["url"].(string)
	require.True(t, strings.HasPrefix(url, "/u/"), url)

	rec = serve(e, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "oggdata", rec.Body.String())
}

func TestTranscript_ProcessingThenReady(t *testing.T) {
	tr := newGatedTranscriber()
	e := newTestServer(t, serverOptions{transcriber: tr})
	id := upload(t, e, []byte("audio"))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "processing"}, decode(t, rec))

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript.txt", nil))
	assert.Equal(t, "Transcript unavailable", rec.Body.String())

	tr.Open()
	require.Eventually(t, func() bool {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript", nil))
		return rec.Code == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript", nil))
	body := decode(t, rec)
	assert.Equal(t, "ready", body["status"])
	assert.Len(t, body["words"], 7)
	assert.NotEmpty(t, body["lines"])
	assert.NotEmpty(t, body["chapters"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	assert.Contains(t, rec.Body.String(), "Remember to call the venue")
}

func TestTranscript_UnknownMemo(t *testing.T) {
	e := newTestServer(t, serverOptions{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/nope/transcript", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "MEMO_NOT_FOUND", body["code"])
	assert.NotContains(t, rec.Body.String(), "memos/nope.json")
}

func TestAudio_RangeRequest(t *testing.T) {
	e := newTestServer(t, serverOptions{})
	data := bytes.Repeat([]byte("0123456789"), 20)
	id := upload(t, e, data)

	req := httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/audio", nil)
	req.Header.Set("Range", "bytes=0-99")
	rec := serve(e, req)
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 0-99/200", rec.Header().Get("Content-Range"))
	assert.Equal(t, data[:100], rec.Body.Bytes())
	assert.Equal(t, "audio/webm", rec.Header().Get(echo.HeaderContentType))

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/audio", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Body.Bytes(), 200)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/missing/audio", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments_WithoutStorage(t *testing.T) {
	e := newTestServer(t, serverOptions{noStore: true})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/abc/comments", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_UNAVAILABLE", decode(t, rec)["code"])
	assert.NotContains(t, rec.Body.String(), "comments.json")
}

func TestComments_PostListAndThreads(t *testing.T) {
	e := newTestServer(t, serverOptions{})
	id := upload(t, e, []byte("audio"))
	base := "/api/memos/" + id + "/comments"

	rec := serve(e, jsonRequest(http.MethodPost, base, `{"text":"   "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, base, `{"text":"hi","start":5,"end":2}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, base, `{"text":" first ","at":3.5}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	first := body["comment"].(map[string]interface{})
	assert.Equal(t, "first", first["text"])
	assert.Equal(t, "point", first["kind"])
	assert.Equal(t, 3.5, first["anchor"])
	parentID := first["id"].(string)

	rec = serve(e, jsonRequest(http.MethodPost, base, `{"text":"reply","parentId":"`+parentID+`","start":1,"quoteText":"hello"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode(t, rec)["comment"].(map[string]interface{})
	assert.Equal(t, "range", reply["kind"])
	assert.Equal(t, 1.0, reply["end"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, base, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	assert.Len(t, list["comments"], 2)
	assert.NotContains(t, list, "threads")

	rec = serve(e, httptest.NewRequest(http.MethodGet, base+"?threaded=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	threads := decode(t, rec)["threads"].(map[string]interface{})
	assert.Len(t, threads[""], 1)
	assert.Len(t, threads[parentID], 1)

	rec = serve(e, jsonRequest(http.MethodPost, "/api/memos/unknown/comments", `{"text":"hi"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReactions(t *testing.T) {
	e := newTestServer(t, serverOptions{})
	id := upload(t, e, []byte("audio"))
	base := "/api/memos/" + id + "/comments"

	rec := serve(e, jsonRequest(http.MethodPost, base, `{"text":"nice"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	commentID := decode(t, rec)["comment"].(map[string]interface{})["id"].(string)
	reactURL := base + "/" + commentID + "/reactions"

	rec = serve(e, jsonRequest(http.MethodPost, reactURL, `{"emoji":"👍"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"clientId": "required"}, decode(t, rec)["details"])

	rec = serve(e, jsonRequest(http.MethodPost, base+"/missing/reactions", `{"emoji":"👍","clientId":"c1"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "COMMENT_NOT_FOUND", decode(t, rec)["code"])

	reactions := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode(t, rec)["comment"].(map[string]interface{})["reactions"].(map[string]interface{})
	}

	got := reactions(serve(e, jsonRequest(http.MethodPost, reactURL, `{"emoji":"👍","clientId":"c1"}`)))
	assert.Equal(t, []interface{}{"c1"}, got["👍"])

	got = reactions(serve(e, jsonRequest(http.MethodPost, reactURL, `{"emoji":"👍","clientId":"c1","action":"add"}`)))
	assert.Equal(t, []interface{}{"c1"}, got["👍"])

	got = reactions(serve(e, jsonRequest(http.MethodPost, reactURL, `{"emoji":"👍","clientId":"c1"}`)))
	assert.NotContains(t, got, "👍")
}

func TestAsk(t *testing.T) {
	tr := newGatedTranscriber()
	tr.Open()
	e := newTestServer(t, serverOptions{transcriber: tr, chat: cannedChat{answer: "Call the venue."}})
	id := upload(t, e, []byte("audio"))
	askURL := "/api/memos/" + id + "/ask"

	rec := serve(e, jsonRequest(http.MethodPost, askURL, `{"question":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, "/api/memos/unknown/ask", `{"question":"what?"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Eventually(t, func() bool {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/memos/"+id+"/transcript", nil))
		return rec.Code == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	rec = serve(e, jsonRequest(http.MethodPost, askURL, `{"question":"What should I do?"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]interface{}{"answer": "Call the venue."}, decode(t, rec))
}

func TestAsk_WithoutChat(t *testing.T) {
	e := newTestServer(t, serverOptions{})
	id := upload(t, e, []byte("audio"))

	rec := serve(e, jsonRequest(http.MethodPost, "/api/memos/"+id+"/ask", `{"question":"what?"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decode(t, rec)["code"])
}

func TestAsk_RateLimited(t *testing.T) {
	e := newTestServer(t, serverOptions{askPerMin: 1})

	rec := serve(e, jsonRequest(http.MethodPost, "/api/memos/unknown/ask", `{"question":"what?"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, "/api/memos/unknown/ask", `{"question":"what?"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, rec)["code"])
}

func TestHealthAndUnknownRoute(t *testing.T) {
	e := newTestServer(t, serverOptions{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["capabilities"].(map[string]interface{})["storage"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])
}

func TestReadiness(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	NewRouter(cfg, nil, nil, nil, common.Capabilities{}).
		WithProbes(
			Probe{Name: "storage", Check: func(context.Context) error { return nil }},
			Probe{Name: "redis", Check: func(context.Context) error { return io.ErrUnexpectedEOF }},
		).
		Setup(e)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, map[string]interface{}{"storage": "ok", "redis": "unavailable"}, body["checks"])
}
