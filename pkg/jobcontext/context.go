package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyJobType      KeyContext = "job_type"
	keyMemoID       KeyContext = "memo_id"
	keyRetryAttempt KeyContext = "retry_attempt"
	keyJobStartTime KeyContext = "job_start_time"
	keyMaxAttempts  KeyContext = "max_attempts"
	keyRetryStep    KeyContext = "retry_step"
)

const (
	defaultMaxAttempts = 3
	defaultRetryStep   = 500 * time.Millisecond
)

// JobMetadata holds metadata for a job execution
type JobMetadata struct {
	JobID        uuid.UUID
	JobType      string
	MemoID       string
	RetryAttempt int
	MaxAttempts  int
	StartTime    time.Time
}

// JobBegin initializes a job context with metadata and timeout
func JobBegin(parentCtx context.Context, memoID string, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	// Create context with timeout to prevent infinite hanging
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyMemoID, memoID)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// LinearBackOff waits attempt * Step before each retry
type LinearBackOff struct {
	Step    time.Duration
	attempt int
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.Step
}

func (b *LinearBackOff) Reset() {
	b.attempt = 0
}

// JobEnd executes jobFunc, retrying transient failures with a linear backoff.
// Attempts and step come from the context. notify may be nil.
func JobEnd(ctx context.Context, jobFunc func(context.Context) error, notify backoff.Notify) error {
	var (
		maxAttempts = GetMaxAttempts(ctx)
		attempt     = 0
		retryable   = false
	)

	operation := func() error {
		attempt++
		actx := SetRetryAttempt(ctx, attempt)

		// Check if context was cancelled before execution
		if actx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("context cancelled before job execution: %w", actx.Err()))
		}

		err := runRecovered(actx, jobFunc)
		if err == nil {
			return nil
		}
		retryable = IsRetryableError(err)
		if !retryable {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&LinearBackOff{Step: GetRetryStep(ctx)}, uint64(maxAttempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(operation, policy, notify)
	switch {
	case err == nil:
		return nil
	case !retryable:
		return fmt.Errorf("non-retryable error: %w", err)
	case attempt >= maxAttempts:
		return fmt.Errorf("max attempts (%d) exceeded: %w", maxAttempts, err)
	default:
		return fmt.Errorf("job failed after %d attempts: %w", attempt, err)
	}
}

// runRecovered turns a panic in the job into an error
func runRecovered(ctx context.Context, jobFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return jobFunc(ctx)
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetJobType extracts job type from context
func GetJobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok
}

// GetMemoID extracts the memo the job works on
func GetMemoID(ctx context.Context) (string, bool) {
	memoID, ok := ctx.Value(keyMemoID).(string)
	return memoID, ok
}

// GetRetryAttempt extracts current attempt (1-based inside JobEnd) from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt updates retry attempt in context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetMaxAttempts extracts max attempts from context
func GetMaxAttempts(ctx context.Context) int {
	maxAttempts, ok := ctx.Value(keyMaxAttempts).(int)
	if !ok || maxAttempts < 1 {
		return defaultMaxAttempts
	}
	return maxAttempts
}

// GetRetryStep extracts the linear backoff step from context
func GetRetryStep(ctx context.Context) time.Duration {
	step, ok := ctx.Value(keyRetryStep).(time.Duration)
	if !ok || step < 0 {
		return defaultRetryStep
	}
	return step
}

// SetRetryPolicy updates attempts and backoff step in context
func SetRetryPolicy(ctx context.Context, maxAttempts int, step time.Duration) context.Context {
	ctx = context.WithValue(ctx, keyMaxAttempts, maxAttempts)
	return context.WithValue(ctx, keyRetryStep, step)
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	jobType, _ := GetJobType(ctx)
	memoID, _ := GetMemoID(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:        jobID,
		JobType:      jobType,
		MemoID:       memoID,
		RetryAttempt: GetRetryAttempt(ctx),
		MaxAttempts:  GetMaxAttempts(ctx),
		StartTime:    startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry.
// Provider errors carry their own class. Anything else is matched on its message.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var pe *pkgai.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind.Retryable()
	}
	if pkgai.Classify(err).Retryable() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
