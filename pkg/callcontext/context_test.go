package callcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBeginAndMetadata(t *testing.T) {
	ctx := Begin(context.Background(), "CA123", "req-1")
	md := GetCallMetadata(ctx)
	if md.CallID != "CA123" || md.RequestID != "req-1" || md.StartTime.IsZero() {
		t.Errorf("metadata = %+v", md)
	}
	if GetCallID(context.Background()) != "" {
		t.Errorf("empty context should have no call ID")
	}
}

func TestDetachOutlivesParent(t *testing.T) {
	parent, cancel := context.WithCancel(Begin(context.Background(), "CA9", ""))
	detached, stop := Detach(parent, time.Minute)
	defer stop()

	cancel()
	if detached.Err() != nil {
		t.Fatalf("detached context cancelled with parent: %v", detached.Err())
	}
	if GetCallID(detached) != "CA9" {
		t.Errorf("call ID lost on detach")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("insert: %w", context.DeadlineExceeded), true},
		{errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), true},
		{errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"), false},
		{errors.New("invalid input syntax for type uuid"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableError(tt.err); got != tt.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
