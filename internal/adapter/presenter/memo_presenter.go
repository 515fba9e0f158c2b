package presenter

import (
	"net/http"

	"github.com/johnquangdev/voice-memo/internal/adapter/dto/memo"
	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
	"github.com/johnquangdev/voice-memo/internal/usecase/transcript"
)

// UnavailableTranscriptText is the plain-text download body of a transcript that is not ready
const UnavailableTranscriptText = "Transcript unavailable"

// ToUploadResponse converts an upload result to UploadResponse DTO
func ToUploadResponse(out *memouse.UploadOutput) *memo.UploadResponse {
	if out == nil || out.Memo == nil {
		return nil
	}
	return &memo.UploadResponse{
		ID:       out.Memo.ID,
		URL:      out.Memo.URL,
		ShareURL: out.ShareURL,
	}
}

// ToTranscriptResponse maps a transcript state to its HTTP status and body
func ToTranscriptResponse(t *entities.Transcript) (int, interface{}) {
	status := t.CurrentStatus()
	switch status {
	case entities.TranscriptStatusReady:
		p := t.Payload()
		if p == nil {
			return http.StatusAccepted, memo.TranscriptStatusResponse{Status: entities.TranscriptStatusProcessing}
		}
		return http.StatusOK, memo.TranscriptResponse{
			Status:   status,
			Text:     p.Text,
			Words:    p.Words,
			Lines:    p.Lines,
			Chapters: p.Chapters,
		}
	case entities.TranscriptStatusError:
		return http.StatusInternalServerError, memo.TranscriptStatusResponse{Status: status}
	case entities.TranscriptStatusUnavailable:
		return http.StatusServiceUnavailable, memo.TranscriptStatusResponse{Status: status}
	default:
		return http.StatusAccepted, memo.TranscriptStatusResponse{Status: entities.TranscriptStatusProcessing}
	}
}

// ToTranscriptText renders a transcript as one line per transcript line
func ToTranscriptText(t *entities.Transcript) string {
	p := t.Payload()
	if p == nil {
		return UnavailableTranscriptText
	}
	return transcript.PlainText(p.Lines, "\n")
}
