// Package transcript turns provider segments into words, lines, chapters and
// auto-comment candidates. Everything here is pure and synchronous.
package transcript

import (
	"math"
	"strings"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// minSegmentDuration keeps the per-word slice positive for zero-length segments
const minSegmentDuration = 0.001

// SynthesizeWords spreads each segment's tokens evenly over the segment.
// Segments are clamped to the running cursor so the output never goes back in time.
// A missing start falls back to the cursor, a missing end to the start.
func SynthesizeWords(segments []entities.Segment) []entities.Word {
	words := make([]entities.Word, 0)
	cursor := 0.0

	for _, seg := range segments {
		tokens := strings.Fields(seg.Text)
		if len(tokens) == 0 {
			continue
		}

		start := cursor
		if seg.Start != nil && *seg.Start > cursor {
			start = *seg.Start
		}
		end := start
		if seg.End != nil && *seg.End > start {
			end = *seg.End
		}

		step := math.Max(minSegmentDuration, end-start) / float64(len(tokens))
		for i, tok := range tokens {
			ws := math.Min(end, start+float64(i)*step)
			we := math.Min(end, start+float64(i+1)*step)
			if i == len(tokens)-1 {
				we = end
			}
			words = append(words, entities.Word{Text: tok, Start: ws, End: we})
		}
		cursor = end
	}

	return words
}
