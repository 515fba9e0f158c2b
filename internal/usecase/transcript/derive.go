package transcript

import (
	"strings"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// Derive builds the ready payload from provider output using heuristic titles.
// The drafts are returned so callers can refine the titles.
func Derive(text string, segments []entities.Segment) (entities.TranscriptPayload, []ChapterDraft) {
	words := SynthesizeWords(segments)
	drafts := SegmentChapters(segments)

	if strings.TrimSpace(text) == "" {
		parts := make([]string, 0, len(segments))
		for _, s := range segments {
			if t := strings.TrimSpace(s.Text); t != "" {
				parts = append(parts, t)
			}
		}
		text = strings.Join(parts, " ")
	}

	return entities.TranscriptPayload{
		Text:     strings.TrimSpace(text),
		Words:    words,
		Lines:    GroupLines(words),
		Chapters: TitleDrafts(drafts),
	}, drafts
}
