package transcript

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// MaxSmartComments caps the auto-comments produced per memo
const MaxSmartComments = 12

// SmartKind classifies a transcript line
type SmartKind string

const (
	SmartKindAction SmartKind = "Action"
	SmartKindKey    SmartKind = "Key"
)

// SmartComment is an auto-comment candidate, not yet persisted
type SmartComment struct {
	Kind      SmartKind
	LineIndex int
	At        float64
	Text      string // labelled, e.g. "Action: send the deck"
}

var actionPatterns = compileAll(
	`^(let's|lets)\b`,
	`\bwe (need|should|must|will)\b`,
	`\baction( item)?s?\b`,
	`\btodo\b`,
	`\bfollow ?up\b`,
	`\bschedule\b`,
	`\bsend\b`,
	`\bemail\b`,
	`\bcreate\b`,
	`\bupdate\b`,
	`\bfix\b`,
	`\breview\b`,
	`\bdeploy\b`,
	`\btest\b`,
	`\bdocument\b`,
)

var keyPatterns = compileAll(
	`\bkey point\b`,
	`\bimportant\b`,
	`\bnote\b`,
	`\bsummary\b`,
	`!\s*$`,
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Classify returns the smart kind of a line. Action wins over Key.
func Classify(text string) (SmartKind, bool) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", false
	case matchesAny(actionPatterns, text):
		return SmartKindAction, true
	case matchesAny(keyPatterns, text):
		return SmartKindKey, true
	}
	return "", false
}

// ExtractSmartComments scans lines in order and returns at most
// MaxSmartComments candidates, unique by lowercased label.
func ExtractSmartComments(lines []entities.Line) []SmartComment {
	out := make([]SmartComment, 0)
	seen := make(map[string]bool)

	for i, line := range lines {
		if len(out) == MaxSmartComments {
			break
		}
		kind, ok := Classify(line.Text)
		if !ok {
			continue
		}
		label := string(kind) + ": " + strings.Join(strings.Fields(line.Text), " ")
		key := strings.ToLower(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, SmartComment{Kind: kind, LineIndex: i, At: line.Start, Text: label})
	}

	return out
}
