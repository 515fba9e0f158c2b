package entities

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Memo is one uploaded recording and its derived transcript
type Memo struct {
	ID          string      `json:"id"`
	Filename    string      `json:"filename"`
	URL         string      `json:"url"`
	ContentType string      `json:"contentType,omitempty"`
	CreatedAt   int64       `json:"createdAt"` // unix milliseconds
	Segments    []Segment   `json:"segments,omitempty"`
	Transcript  *Transcript `json:"transcript"`
}

// NewMemo creates a memo record in its initial transcript state
func NewMemo(id, filename, url, contentType string, transcribing bool, now time.Time) *Memo {
	m := &Memo{
		ID:          id,
		Filename:    filename,
		URL:         url,
		ContentType: contentType,
		CreatedAt:   now.UnixMilli(),
		Transcript:  ProcessingTranscript(),
	}
	if !transcribing {
		m.Transcript = UnavailableTranscript()
	}
	return m
}

// MarkReady moves a processing memo to ready
func (m *Memo) MarkReady(segments []Segment, payload TranscriptPayload) error {
	if m.Transcript.CurrentStatus().IsTerminal() {
		return ErrTranscriptTerminal
	}
	m.Segments = segments
	m.Transcript = ReadyTranscript(payload)
	return nil
}

// MarkFailed moves a processing memo to error
func (m *Memo) MarkFailed() error {
	if m.Transcript.CurrentStatus().IsTerminal() {
		return ErrTranscriptTerminal
	}
	m.Transcript = FailedTranscript()
	return nil
}

const idSuffixLen = 6

// NewID returns a base-36 identifier made of the creation time and a random suffix
func NewID(now time.Time) string {
	u := uuid.New()
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	if len(suffix) < idSuffixLen {
		suffix = strings.Repeat("0", idSuffixLen-len(suffix)) + suffix
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + suffix[len(suffix)-idSuffixLen:]
}
