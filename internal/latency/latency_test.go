package latency

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAfter_ZeroDelayResolvesImmediately(t *testing.T) {
	c := After("x", 0)
	v, ok := c.Value()
	if !ok {
		t.Fatalf("expected resolved completion")
	}
	if v != "x" {
		t.Fatalf("expected x, got %q", v)
	}
}

func TestAfter_DelayedResolution(t *testing.T) {
	c := After(42, 30*time.Millisecond)
	if _, ok := c.Value(); ok {
		t.Fatalf("expected pending completion")
	}

	v, err := c.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if _, ok := c.Value(); !ok {
		t.Fatalf("expected resolved after Wait")
	}
}

func TestWait_ContextEndsFirst(t *testing.T) {
	c := After(1, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWait_AbandonedCompletionStillFires(t *testing.T) {
	c := After("late", 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Wait(ctx); err == nil {
		t.Fatalf("expected error from cancelled context")
	}

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatalf("completion never fired")
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	if p.FileUpload != 500*time.Millisecond || p.FileDelete != 300*time.Millisecond {
		t.Fatalf("unexpected file delays: %+v", p)
	}
	if p.MessageSend != 300*time.Millisecond || p.MessageDelete != 200*time.Millisecond {
		t.Fatalf("unexpected message delays: %+v", p)
	}
	if Instant() != (Profile{}) {
		t.Fatalf("expected zero profile")
	}
}
