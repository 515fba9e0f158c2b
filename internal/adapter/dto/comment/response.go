package comment

import (
	"encoding/json"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// CommentResponse is a stored comment plus its effective playback position.
// It serializes as the stored comment document with an extra "anchor" field.
type CommentResponse struct {
	Comment entities.Comment
	Anchor  float64
}

func (r CommentResponse) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Comment)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	anchor, err := json.Marshal(r.Anchor)
	if err != nil {
		return nil, err
	}
	fields["anchor"] = anchor
	return json.Marshal(fields)
}

// ListCommentsResponse represents the comments of a memo
type ListCommentsResponse struct {
	Comments []CommentResponse            `json:"comments"`
	Threads  map[string][]CommentResponse `json:"threads,omitempty"`
}

// CommentEnvelope is returned by comment and reaction mutations
type CommentEnvelope struct {
	OK      bool            `json:"ok"`
	Comment CommentResponse `json:"comment"`
}
