package comment

// CreateCommentRequest represents the request to post a comment.
// Text is trimmed by the service, so whitespace-only text is rejected there.
type CreateCommentRequest struct {
	Text      string   `json:"text" validate:"required,max=5000"`
	ParentID  *string  `json:"parentId,omitempty" validate:"omitempty,max=64"`
	At        *float64 `json:"at,omitempty" validate:"omitempty,min=0"`
	LineIndex *int     `json:"lineIndex,omitempty" validate:"omitempty,min=0"`
	Start     *float64 `json:"start,omitempty" validate:"omitempty,min=0"`
	End       *float64 `json:"end,omitempty" validate:"omitempty,min=0"`
	QuoteText string   `json:"quoteText,omitempty" validate:"max=5000"`
}

// ReactionRequest represents the request to add, remove or toggle a reaction.
// An empty action toggles.
type ReactionRequest struct {
	Emoji    string `json:"emoji" validate:"required,max=32"`
	ClientID string `json:"clientId" validate:"required,max=128"`
	Action   string `json:"action,omitempty" validate:"omitempty,oneof=add remove"`
}

// ListCommentsRequest represents query parameters for listing comments
type ListCommentsRequest struct {
	Threaded string `query:"threaded" validate:"omitempty,oneof=0 1 true false"`
}

// WantsThreads reports whether the grouped view was requested
func (r ListCommentsRequest) WantsThreads() bool {
	return r.Threaded == "1" || r.Threaded == "true"
}
