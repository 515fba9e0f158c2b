package entities

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// AnchorKind discriminates how a comment is attached to the timeline
type AnchorKind string

const (
	AnchorKindNone  AnchorKind = "none"
	AnchorKindPoint AnchorKind = "point"
	AnchorKindRange AnchorKind = "range"
	AnchorKindLine  AnchorKind = "line"
)

// Anchor is the time reference of a comment. Build it with the constructors below.
type Anchor struct {
	kind  AnchorKind
	at    float64
	start float64
	end   float64
	quote string
	line  *int
}

func NoAnchor() Anchor {
	return Anchor{kind: AnchorKindNone}
}

func PointAnchor(at float64) Anchor {
	return Anchor{kind: AnchorKindPoint, at: at}
}

func RangeAnchor(start, end float64, quote string) (Anchor, error) {
	if end < start {
		return Anchor{}, ErrInvalidAnchor
	}
	return Anchor{kind: AnchorKindRange, start: start, end: end, quote: quote}, nil
}

func LineAnchor(index int) Anchor {
	return Anchor{kind: AnchorKindLine, line: &index}
}

// WithLine attaches a line reference to a point or empty anchor
func (a Anchor) WithLine(index int) Anchor {
	if a.kind == AnchorKindNone {
		return LineAnchor(index)
	}
	a.line = &index
	return a
}

func (a Anchor) Kind() AnchorKind {
	if a.kind == "" {
		return AnchorKindNone
	}
	return a.kind
}

// LineIndex returns the referenced line, if any
func (a Anchor) LineIndex() (int, bool) {
	if a.line == nil {
		return 0, false
	}
	return *a.line, true
}

// Resolve returns the playback position for the anchor:
// range start, else point, else the referenced line start, else zero.
func (a Anchor) Resolve(lines []Line) float64 {
	switch a.Kind() {
	case AnchorKindRange:
		return a.start
	case AnchorKindPoint:
		return a.at
	}
	if idx, ok := a.LineIndex(); ok && idx >= 0 && idx < len(lines) {
		return lines[idx].Start
	}
	return 0
}

// ReactionAction is the desired membership of a reactor
type ReactionAction string

const (
	ReactionToggle ReactionAction = ""
	ReactionAdd    ReactionAction = "add"
	ReactionRemove ReactionAction = "remove"
)

// Reactions maps an emoji to the client IDs that reacted with it
type Reactions map[string][]string

// Has reports whether clientID reacted with emoji
func (r Reactions) Has(emoji, clientID string) bool {
	for _, id := range r[emoji] {
		if id == clientID {
			return true
		}
	}
	return false
}

// Comment is a user or auto-generated note on a memo
type Comment struct {
	ID        string
	ParentID  *string
	Anchor    Anchor
	Text      string
	CreatedAt int64 // unix milliseconds
	Reactions Reactions
}

// NewComment validates text and builds a comment with empty reactions
func NewComment(id, text string, parentID *string, anchor Anchor, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmptyComment
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	return Comment{
		ID:        id,
		ParentID:  parentID,
		Anchor:    anchor,
		Text:      text,
		CreatedAt: now.UnixMilli(),
		Reactions: Reactions{},
	}, nil
}

// React applies a reaction change and reports whether membership changed
func (c *Comment) React(emoji, clientID string, action ReactionAction) bool {
	present := c.Reactions.Has(emoji, clientID)
	want := !present
	switch action {
	case ReactionAdd:
		want = true
	case ReactionRemove:
		want = false
	}
	if want == present {
		return false
	}

	if c.Reactions == nil {
		c.Reactions = Reactions{}
	}
	if want {
		c.Reactions[emoji] = append(c.Reactions[emoji], clientID)
		return true
	}

	kept := c.Reactions[emoji][:0:0]
	for _, id := range c.Reactions[emoji] {
		if id != clientID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		delete(c.Reactions, emoji)
	} else {
		c.Reactions[emoji] = kept
	}
	return true
}

// RootKey is the thread key for top-level comments
const RootKey = ""

// ThreadKey returns the parent ID, or RootKey for top-level comments
func (c Comment) ThreadKey() string {
	if c.ParentID == nil {
		return RootKey
	}
	return *c.ParentID
}

// commentDocument is the stored JSON shape of a comment
type commentDocument struct {
	ID        string     `json:"id"`
	ParentID  *string    `json:"parentId"`
	Kind      AnchorKind `json:"kind"`
	At        *float64   `json:"at,omitempty"`
	Start     *float64   `json:"start,omitempty"`
	End       *float64   `json:"end,omitempty"`
	QuoteText string     `json:"quoteText,omitempty"`
	LineIndex *int       `json:"lineIndex,omitempty"`
	Text      string     `json:"text"`
	CreatedAt int64      `json:"createdAt"`
	Reactions Reactions  `json:"reactions"`
}

func (c Comment) MarshalJSON() ([]byte, error) {
	doc := commentDocument{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Kind:      c.Anchor.Kind(),
		LineIndex: c.Anchor.line,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Reactions: c.Reactions,
	}
	switch c.Anchor.Kind() {
	case AnchorKindPoint:
		doc.At = Seconds(c.Anchor.at)
	case AnchorKindRange:
		doc.Start = Seconds(c.Anchor.start)
		doc.End = Seconds(c.Anchor.end)
		doc.QuoteText = c.Anchor.quote
	}
	if doc.Reactions == nil {
		doc.Reactions = Reactions{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON derives the anchor from the stored fields, so documents written
// without a kind still decode to a consistent anchor.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var doc commentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	anchor := NoAnchor()
	switch {
	case doc.Start != nil:
		end := *doc.Start
		if doc.End != nil && *doc.End >= end {
			end = *doc.End
		}
		anchor = Anchor{kind: AnchorKindRange, start: *doc.Start, end: end, quote: doc.QuoteText}
	case doc.At != nil:
		anchor = PointAnchor(*doc.At)
	}
	if doc.LineIndex != nil {
		anchor = anchor.WithLine(*doc.LineIndex)
	}

	*c = Comment{
		ID:        doc.ID,
		ParentID:  doc.ParentID,
		Anchor:    anchor,
		Text:      doc.Text,
		CreatedAt: doc.CreatedAt,
		Reactions: doc.Reactions,
	}
	if c.Reactions == nil {
		c.Reactions = Reactions{}
	}
	return nil
}

// Comments is the ordered comment list of one memo
type Comments []Comment

// Sorted returns a copy ordered by CreatedAt, keeping insertion order on ties
func (cs Comments) Sorted() Comments {
	out := make(Comments, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Thread groups comments by parent. Each group is ordered like Sorted.
func (cs Comments) Thread() map[string]Comments {
	threads := make(map[string]Comments)
	for _, c := range cs.Sorted() {
		key := c.ThreadKey()
		threads[key] = append(threads[key], c)
	}
	return threads
}

// Index returns the position of the comment with id, or -1
func (cs Comments) Index(id string) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}
