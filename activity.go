package auth

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventCredentialSuccess ActivityEventType = "auth.credential.success"
	ActivityEventCredentialFailure ActivityEventType = "auth.credential.failure"
	ActivityEventTokenSuccess      ActivityEventType = "auth.token.success"
	ActivityEventTokenFailure      ActivityEventType = "auth.token.failure"
)

// ActivityEvent captures audit-friendly information about an authentication
// attempt. Failure events carry the internal cause that callers never see.
type ActivityEvent struct {
	EventType   ActivityEventType
	RequestKind RequestKind
	Username    string
	Cause       error
	Metadata    map[string]any
	OccurredAt  time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
