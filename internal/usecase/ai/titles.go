package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/usecase/transcript"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
)

const (
	titleExcerptChars = 360
	titleMaxWords     = 6
)

const titleSystemPrompt = "You write short chapter titles for voice memo transcripts. " +
	"Reply with a JSON array of strings and nothing else."

// buildTitlePrompt numbers one trimmed excerpt per chapter
func buildTitlePrompt(drafts []transcript.ChapterDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give a noun-phrase title of at most %d words for each of the %d excerpts below, in order. ", titleMaxWords, len(drafts))
	fmt.Fprintf(&b, "Reply with a JSON array of exactly %d strings.\n", len(drafts))
	for i, d := range drafts {
		fmt.Fprintf(&b, "\n%d. %s", i+1, excerpt(d.Text, titleExcerptChars))
	}
	return b.String()
}

// excerpt trims text to at most n runes
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n]))
}

// refineChapterTitles asks the LLM for better titles in one request.
// Any chapter without a usable reply keeps its fallback title.
func (s *aiService) refineChapterTitles(ctx context.Context, drafts []transcript.ChapterDraft, fallback []entities.Chapter) []entities.Chapter {
	content, err := s.chat.Complete(ctx, []pkgai.Message{
		{Role: "system", Content: titleSystemPrompt},
		{Role: "user", Content: buildTitlePrompt(drafts)},
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Title refinement failed, keeping heuristic titles",
				zap.String("error_kind", pkgai.Classify(err).String()),
				zap.Error(err),
			)
		}
		return fallback
	}

	titles, err := ParseTitles(content)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Unparseable title response, keeping heuristic titles", zap.Error(err))
		}
		return fallback
	}

	return MergeTitles(fallback, titles)
}

// MergeTitles replaces each fallback title with the matching cleaned title when it is not empty
func MergeTitles(fallback []entities.Chapter, titles []string) []entities.Chapter {
	out := make([]entities.Chapter, len(fallback))
	copy(out, fallback)
	for i := range out {
		if i >= len(titles) {
			break
		}
		if t := CleanTitle(titles[i], titleMaxWords); t != "" {
			out[i].Title = t
		}
	}
	return out
}
