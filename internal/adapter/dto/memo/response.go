package memo

import "github.com/johnquangdev/voice-memo/internal/domain/entities"

// UploadResponse is returned once the audio is stored
type UploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	ShareURL string `json:"shareUrl"`
}

// TranscriptStatusResponse is the body of every non-ready transcript poll
type TranscriptStatusResponse struct {
	Status entities.TranscriptStatus `json:"status"`
}

// TranscriptResponse is the body of a ready transcript
type TranscriptResponse struct {
	Status   entities.TranscriptStatus `json:"status"`
	Text     string                    `json:"text"`
	Words    []entities.Word           `json:"words"`
	Lines    []entities.Line           `json:"lines"`
	Chapters []entities.Chapter        `json:"chapters"`
}

// AskResponse carries the answer to a transcript question
type AskResponse struct {
	Answer string `json:"answer"`
}
