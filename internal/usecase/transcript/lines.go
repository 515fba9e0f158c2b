package transcript

import (
	"strings"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// WordsPerLine is the display line size
const WordsPerLine = 8

// GroupLines partitions words into consecutive lines of WordsPerLine.
// The last line may be shorter.
func GroupLines(words []entities.Word) []entities.Line {
	lines := make([]entities.Line, 0, (len(words)+WordsPerLine-1)/WordsPerLine)

	for from := 0; from < len(words); from += WordsPerLine {
		to := from + WordsPerLine - 1
		if to >= len(words) {
			to = len(words) - 1
		}

		chunk := words[from : to+1]
		texts := make([]string, len(chunk))
		for i, w := range chunk {
			texts[i] = w.Text
		}

		lines = append(lines, entities.Line{
			Text:  strings.Join(texts, " "),
			Start: chunk[0].Start,
			End:   chunk[len(chunk)-1].End,
			From:  from,
			To:    to,
		})
	}

	return lines
}

// PlainText joins line texts with sep. Used for QA context and text downloads.
func PlainText(lines []entities.Line, sep string) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, sep)
}
