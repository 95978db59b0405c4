package callcontext

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

type KeyContext string

var (
	keyCallID    KeyContext = "call_id"
	keyRequestID KeyContext = "request_id"
	keyStartTime KeyContext = "call_start_time"
)

// CallMetadata holds metadata for one voice turn
type CallMetadata struct {
	CallID    string
	RequestID string
	StartTime time.Time
}

// Begin attaches call metadata to ctx
func Begin(ctx context.Context, callID, requestID string) context.Context {
	ctx = context.WithValue(ctx, keyCallID, callID)
	ctx = context.WithValue(ctx, keyRequestID, requestID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx
}

// Detach returns a context that keeps the call metadata of ctx but is not
// cancelled with it, bounded by timeout. Used for work that outlives the
// HTTP request.
func Detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// GetCallID extracts the call ID from context
func GetCallID(ctx context.Context) string {
	id, _ := ctx.Value(keyCallID).(string)
	return id
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// GetStartTime extracts the call start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(keyStartTime).(time.Time)
	return t, ok
}

// GetCallMetadata extracts all call metadata from context
func GetCallMetadata(ctx context.Context) *CallMetadata {
	start, _ := GetStartTime(ctx)
	return &CallMetadata{
		CallID:    GetCallID(ctx),
		RequestID: GetRequestID(ctx),
		StartTime: start,
	}
}

// IsRetryableError checks if an error is transient.
// Retryable errors include: timeouts, network errors, deadlocks, rate limits.
// Cancellation is not retryable; it means the work was abandoned.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") || // deadlock_detected
		strings.Contains(errStr, "57p03") { // cannot_connect_now
		return true
	}

	// Rate limiting and server errors
	if strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
