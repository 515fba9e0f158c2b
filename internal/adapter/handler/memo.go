package handler

import (
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/errors"
	"github.com/johnquangdev/voice-memo/internal/adapter/presenter"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
)

// Memo handles upload, memo lookup, transcript and audio requests
type Memo struct {
	svc            memouse.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewMemoHandler creates a new memo handler
func NewMemoHandler(svc memouse.Service, maxUploadBytes int64, logger *zap.Logger) *Memo {
	return &Memo{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload handles POST /upload
// @Summary      Upload a voice memo
// @Description  Stores the audio and starts transcription in the background
// @Tags         Memos
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio file"
// @Success      200   {object}  memo.UploadResponse
// @Failure      400   {object}  common.ErrorResponse  "No file"
// @Failure      413   {object}  common.ErrorResponse  "File too large"
// @Failure      503   {object}  common.ErrorResponse  "Storage unavailable"
// @Router       /api/upload [post]
func (h *Memo) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		// Body limit overruns surface here as 413
		var httpErr *echo.HTTPError
		if stdErrors.As(err, &httpErr) {
			return HandleError(h.logger, c, err)
		}
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file is required"))
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(h.maxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return HandleError(h.logger, c, fmt.Errorf("failed to read upload: %w", err))
	}

	out, err := h.svc.Upload(c.Request().Context(), memouse.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUploadResponse(out))
}

// GetMemo handles GET /memos/:id
// @Summary      Get a memo
// @Tags         Memos
// @Produce      json
// @Param        id   path      string  true  "Memo ID"
// @Success      200  {object}  entities.Memo
// @Failure      404  {object}  common.ErrorResponse  "Memo not found"
// @Router       /api/memos/{id} [get]
func (h *Memo) GetMemo(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// GetTranscript handles GET /memos/:id/transcript
// @Summary      Poll a memo's transcript
// @Description  202 while processing, 200 when ready, 500 on failure, 503 when transcription is not configured
// @Tags         Memos
// @Produce      json
// @Param        id   path      string  true  "Memo ID"
// @Success      200  {object}  memo.TranscriptResponse
// @Success      202  {object}  memo.TranscriptStatusResponse
// @Failure      404  {object}  common.ErrorResponse  "Memo not found"
// @Failure      500  {object}  memo.TranscriptStatusResponse
// @Failure      503  {object}  memo.TranscriptStatusResponse
// @Router       /api/memos/{id}/transcript [get]
func (h *Memo) GetTranscript(c echo.Context) error {
	t, err := h.svc.Transcript(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	status, body := presenter.ToTranscriptResponse(t)
	return c.JSON(status, body)
}

// DownloadTranscript handles GET /memos/:id/transcript.txt
// @Summary      Download a memo's transcript as text
// @Tags         Memos
// @Produce      plain
// @Param        id   path      string  true  "Memo ID"
// @Success      200  {string}  string
// @Failure      404  {object}  common.ErrorResponse  "Memo not found"
// @Router       /api/memos/{id}/transcript.txt [get]
func (h *Memo) DownloadTranscript(c echo.Context) error {
	id := c.Param("id")
	t, err := h.svc.Transcript(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", id+".txt"))
	return c.String(http.StatusOK, presenter.ToTranscriptText(t))
}

// StreamAudio handles GET /memos/:id/audio
// @Summary      Stream a memo's audio
// @Description  Honors byte-range requests with 206 and Content-Range
// @Tags         Memos
// @Produce      octet-stream
// @Param        id     path      string  true   "Memo ID"
// @Param        Range  header    string  false  "Byte range, e.g. bytes=0-99"
// @Success      200    {file}    binary
// @Success      206    {file}    binary
// @Failure      404    {object}  common.ErrorResponse  "Audio not found"
// @Router       /api/memos/{id}/audio [get]
func (h *Memo) StreamAudio(c echo.Context) error {
	obj, err := h.svc.OpenAudio(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer obj.Body.Close()

	c.Response().Header().Set(echo.HeaderContentType, obj.ContentType)
	http.ServeContent(c.Response(), c.Request(), "", obj.ModTime, obj.Body)
	return nil
}
