package entities

import "errors"

// Domain errors
var (
	ErrTranscriptTerminal = errors.New("transcript already finalized")
	ErrInvalidAnchor      = errors.New("range end precedes start")
	ErrEmptyComment       = errors.New("comment text is empty")
	ErrCommentNotFound    = errors.New("comment not found")
)
