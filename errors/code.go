package errors

// ErrorCode is the machine readable code carried by every AppError
type ErrorCode int32

const (
	ErrorCode_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_PAYLOAD_TOO_LARGE
	ErrorCode_NOT_FOUND
	ErrorCode_CONFLICT
	ErrorCode_RATE_LIMITED
	ErrorCode_SERVICE_UNAVAILABLE

	// Memo errors
	ErrorCode_MEMO_NOT_FOUND
	ErrorCode_COMMENT_NOT_FOUND
	ErrorCode_TRANSCRIPT_NOT_READY

	// Integration errors
	ErrorCode_AI_TRANSCRIPTION_FAILED
	ErrorCode_AI_SERVICE_UNAVAILABLE
	ErrorCode_STORAGE_FAILED
	ErrorCode_STORAGE_UNAVAILABLE
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_OK:                      "OK",
	ErrorCode_INTERNAL:                "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:        "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:         "INVALID_PAYLOAD",
	ErrorCode_PAYLOAD_TOO_LARGE:       "PAYLOAD_TOO_LARGE",
	ErrorCode_NOT_FOUND:               "NOT_FOUND",
	ErrorCode_CONFLICT:                "CONFLICT",
	ErrorCode_RATE_LIMITED:            "RATE_LIMITED",
	ErrorCode_SERVICE_UNAVAILABLE:     "SERVICE_UNAVAILABLE",
	ErrorCode_MEMO_NOT_FOUND:          "MEMO_NOT_FOUND",
	ErrorCode_COMMENT_NOT_FOUND:       "COMMENT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_NOT_READY:    "TRANSCRIPT_NOT_READY",
	ErrorCode_AI_TRANSCRIPTION_FAILED: "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:  "AI_SERVICE_UNAVAILABLE",
	ErrorCode_STORAGE_FAILED:          "STORAGE_FAILED",
	ErrorCode_STORAGE_UNAVAILABLE:     "STORAGE_UNAVAILABLE",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies and log fields
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
