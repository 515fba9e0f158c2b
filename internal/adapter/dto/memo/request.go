package memo

// AskRequest represents a question about a memo's transcript
type AskRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}
