package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

const (
	// ChapterGapSeconds is the silence that forces a new chapter
	ChapterGapSeconds = 2.5
	// ChapterMaxChars is the buffered text length that forces a new chapter
	ChapterMaxChars = 200
	// TitleMaxWords caps heuristic titles
	TitleMaxWords = 5
)

// ChapterDraft is a chapter before titling, with the text it covers
type ChapterDraft struct {
	Start float64
	End   float64
	Text  string
}

// SegmentChapters splits segments on silence gaps and text length.
// Both limits are checked before the current segment joins the buffer.
func SegmentChapters(segments []entities.Segment) []ChapterDraft {
	drafts := make([]ChapterDraft, 0)

	var (
		open     bool
		curStart float64
		curEnd   float64
		buf      string
	)
	flush := func() {
		if !open {
			return
		}
		drafts = append(drafts, ChapterDraft{Start: curStart, End: curEnd, Text: buf})
		open = false
		buf = ""
	}

	for _, seg := range segments {
		// previous segment end, or zero before the first one
		cursor := 0.0
		if open {
			cursor = curEnd
		}
		start := cursor
		if seg.Start != nil {
			start = *seg.Start
		}
		end := start
		if seg.End != nil {
			end = *seg.End
		}

		if open && (start-curEnd > ChapterGapSeconds || utf8.RuneCountInString(buf) > ChapterMaxChars) {
			flush()
		}
		if !open {
			curStart = start
			open = true
		}
		curEnd = end

		if text := strings.TrimSpace(seg.Text); text != "" {
			if buf != "" {
				buf += " "
			}
			buf += text
		}
	}
	flush()

	return drafts
}

// Chapters segments and titles with the local heuristic
func Chapters(segments []entities.Segment) []entities.Chapter {
	return TitleDrafts(SegmentChapters(segments))
}

// TitleDrafts applies HeuristicTitle to every draft
func TitleDrafts(drafts []ChapterDraft) []entities.Chapter {
	chapters := make([]entities.Chapter, len(drafts))
	for i, d := range drafts {
		chapters[i] = entities.Chapter{
			Title: HeuristicTitle(d.Text, i+1),
			Start: d.Start,
			End:   d.End,
		}
	}
	return chapters
}

var sentenceEnd = regexp.MustCompile(`[.!?](\s|$)`)

var minorWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true, "so": true, "yet": true,
	"as": true, "at": true, "by": true, "for": true, "from": true, "in": true,
	"into": true, "of": true, "on": true, "onto": true, "to": true, "up": true,
	"with": true, "via": true, "per": true,
}

// HeuristicTitle builds a short title from the first sentence of text.
// n is the 1-based chapter number used for the "Moment N" fallback.
func HeuristicTitle(text string, n int) string {
	sentence := strings.TrimSpace(text)
	if loc := sentenceEnd.FindStringIndex(sentence); loc != nil {
		sentence = sentence[:loc[0]]
	}

	words := make([]string, 0, TitleMaxWords)
	for _, raw := range strings.Fields(sentence) {
		w := strings.TrimFunc(raw, func(r rune) bool {
			return unicode.IsPunct(r) && r != '\'' && r != '-'
		})
		if w == "" {
			continue
		}
		words = append(words, titleCaseWord(w, len(words) == 0))
		if len(words) == TitleMaxWords {
			break
		}
	}

	if len(words) == 0 {
		return fmt.Sprintf("Moment %d", n)
	}
	// a title never ends on an article or preposition cut off by the word cap
	for len(words) > 1 && minorWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func titleCaseWord(w string, first bool) string {
	lower := strings.ToLower(w)
	if !first && minorWords[lower] {
		return lower
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + w[size:]
}
