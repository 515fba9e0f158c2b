package common

import "github.com/johnquangdev/voice-memo/errors"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    errors.ErrorCode  `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse reports liveness and which optional capabilities are configured
type HealthResponse struct {
	OK           bool         `json:"ok"`
	Environment  string       `json:"environment"`
	Capabilities Capabilities `json:"capabilities"`
}

// Capabilities lists the configured external collaborators
type Capabilities struct {
	Storage       bool   `json:"storage"`
	Transcription bool   `json:"transcription"`
	QA            bool   `json:"qa"`
	Locking       string `json:"locking"` // "memory" or "redis"
}

// ReadinessResponse reports the result of each dependency probe
type ReadinessResponse struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks"`
}
