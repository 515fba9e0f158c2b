package entities

// TranscriptStatus discriminates the transcript variants stored on a memo
type TranscriptStatus string

const (
	TranscriptStatusProcessing  TranscriptStatus = "processing"
	TranscriptStatusUnavailable TranscriptStatus = "unavailable"
	TranscriptStatusReady       TranscriptStatus = "ready"
	TranscriptStatusError       TranscriptStatus = "error"
)

// IsTerminal reports whether no further transition is allowed
func (s TranscriptStatus) IsTerminal() bool {
	return s != TranscriptStatusProcessing
}

// Segment is a coarse chunk returned by the speech provider.
// Start and End are seconds and may be missing.
type Segment struct {
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Text    string   `json:"text"`
	Speaker string   `json:"speaker,omitempty"`
}

// Word is an interpolated per-word timing
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Line is a fixed-size run of words. From and To are inclusive word indices.
type Line struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	From  int     `json:"from"`
	To    int     `json:"to"`
}

// Chapter is a titled time range of the memo
type Chapter struct {
	Title string  `json:"title"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptPayload carries the derived artifacts of a ready transcript
type TranscriptPayload struct {
	Text     string    `json:"text"`
	Words    []Word    `json:"words"`
	Lines    []Line    `json:"lines"`
	Chapters []Chapter `json:"chapters"`
}

// Transcript is the status-tagged transcript of a memo.
// The payload is only present in the ready state.
type Transcript struct {
	Status TranscriptStatus `json:"status"`
	*TranscriptPayload
}

func ProcessingTranscript() *Transcript {
	return &Transcript{Status: TranscriptStatusProcessing}
}

func UnavailableTranscript() *Transcript {
	return &Transcript{Status: TranscriptStatusUnavailable}
}

func FailedTranscript() *Transcript {
	return &Transcript{Status: TranscriptStatusError}
}

func ReadyTranscript(payload TranscriptPayload) *Transcript {
	if payload.Words == nil {
		payload.Words = []Word{}
	}
	if payload.Lines == nil {
		payload.Lines = []Line{}
	}
	if payload.Chapters == nil {
		payload.Chapters = []Chapter{}
	}
	return &Transcript{Status: TranscriptStatusReady, TranscriptPayload: &payload}
}

// Payload returns the ready payload, or nil for every other state
func (t *Transcript) Payload() *TranscriptPayload {
	if t == nil || t.Status != TranscriptStatusReady {
		return nil
	}
	return t.TranscriptPayload
}

// CurrentStatus treats a missing transcript as still processing
func (t *Transcript) CurrentStatus() TranscriptStatus {
	if t == nil || t.Status == "" {
		return TranscriptStatusProcessing
	}
	return t.Status
}

// Seconds returns a pointer to v, for optional segment times
func Seconds(v float64) *float64 {
	return &v
}
