package ai

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/voice-memo/pkg/config"
)

const providerAssemblyAI = "assemblyai"

// Segment is a provider transcript chunk in seconds. Times may be missing.
type Segment struct {
	Start   *float64
	End     *float64
	Text    string
	Speaker string
}

// Transcription is the provider output the ingestion pipeline consumes
type Transcription struct {
	ID       string
	Text     string
	Segments []Segment
	Duration float64
}

// AssemblyAITranscriber transcribes audio with the official AssemblyAI SDK
type AssemblyAITranscriber struct {
	client   *aai.Client
	language string
	timeout  time.Duration
}

// NewAssemblyAITranscriber creates a transcriber from config
func NewAssemblyAITranscriber(cfg *config.AssemblyAIConfig) *AssemblyAITranscriber {
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &AssemblyAITranscriber{
		client:   aai.NewClientWithOptions(opts...),
		language: cfg.LanguageCode,
		timeout:  timeout,
	}
}

// Transcribe uploads audio and waits for the transcript.
// Every error returned is a *ProviderError.
func (a *AssemblyAITranscriber) Transcribe(ctx context.Context, audio io.Reader) (*Transcription, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
		Punctuate:     aai.Bool(true),
		FormatText:    aai.Bool(true),
	}
	if a.language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(a.language)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}

	transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return nil, NewProviderError(providerAssemblyAI, err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		reason := "unknown error"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		return nil, &ProviderError{
			Provider: providerAssemblyAI,
			Kind:     ErrorKindFatal,
			Err:      fmt.Errorf("transcription failed: %s", reason),
		}
	}

	return transcriptionFromAAI(transcript), nil
}

// transcriptionFromAAI converts utterances (ms) into segments (seconds).
// Without utterances the whole text becomes one segment over the audio duration.
func transcriptionFromAAI(t aai.Transcript) *Transcription {
	out := &Transcription{}
	if t.ID != nil {
		out.ID = *t.ID
	}
	if t.Text != nil {
		out.Text = strings.TrimSpace(*t.Text)
	}
	if t.AudioDuration != nil {
		out.Duration = float64(*t.AudioDuration)
	}

	for _, utt := range t.Utterances {
		s := Segment{}
		if utt.Text != nil {
			s.Text = *utt.Text
		}
		if utt.Speaker != nil {
			s.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			v := float64(*utt.Start) / 1000.0 // ms to seconds
			s.Start = &v
		}
		if utt.End != nil {
			v := float64(*utt.End) / 1000.0
			s.End = &v
		}
		out.Segments = append(out.Segments, s)
	}

	if len(out.Segments) == 0 && out.Text != "" {
		start, end := 0.0, out.Duration
		out.Segments = []Segment{{Start: &start, End: &end, Text: out.Text}}
	}

	return out
}
