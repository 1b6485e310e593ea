package hub

import (
	"errors"
	"sync"
	"testing"
)

type testWriter struct {
	mu       sync.Mutex
	messages []string
	fail     bool
	closed   bool
}

func (w *testWriter) Write(message []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, string(message))
	if w.fail {
		return errTest
	}
	return nil
}

func (w *testWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *testWriter) writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages)
}

var errTest = errors.New("test")

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	h := New()
	w1 := &testWriter{}
	c1 := &Connection{IdentityID: "u", Writer: w1}

	h.Register(c1)
	h.BroadcastAll([]byte("x"))
	if w1.writes() != 1 {
		t.Fatalf("expected 1 write, got %d", w1.writes())
	}

	h.Unregister(c1)
	h.BroadcastAll([]byte("x"))
	if w1.writes() != 1 {
		t.Fatalf("expected no more writes, got %d", w1.writes())
	}
	if h.Len() != 0 {
		t.Fatalf("expected empty hub, got %d", h.Len())
	}
}

func TestHub_RemovesFailedConnections(t *testing.T) {
	h := New()
	w1 := &testWriter{fail: true}
	h.Register(&Connection{IdentityID: "u", Writer: w1})

	h.BroadcastAll([]byte("x"))
	h.BroadcastAll([]byte("x"))
	if w1.writes() != 1 {
		t.Fatalf("expected only 1 write before removal, got %d", w1.writes())
	}
	if !w1.closed {
		t.Fatalf("expected failed connection to be closed")
	}
}

func TestHub_PublishReachesEveryConnection(t *testing.T) {
	h := New()
	w1, w2 := &testWriter{}, &testWriter{}
	h.Register(&Connection{IdentityID: "a", Writer: w1})
	h.Register(&Connection{IdentityID: "b", Writer: w2})

	h.Publish(StoreMessages)

	want := `{"type":"changed","store":"messages"}`
	for i, w := range []*testWriter{w1, w2} {
		if w.writes() != 1 || w.messages[0] != want {
			t.Fatalf("writer %d: unexpected messages %v", i, w.messages)
		}
	}
}

func TestHub_Disconnect(t *testing.T) {
	h := New()
	w1, w2 := &testWriter{}, &testWriter{}
	h.Register(&Connection{IdentityID: "a", Writer: w1})
	h.Register(&Connection{IdentityID: "b", Writer: w2})

	h.Disconnect("a")
	if !w1.closed || w2.closed {
		t.Fatalf("expected only a's connection closed")
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 remaining connection, got %d", h.Len())
	}

	h.Publish(StoreFiles)
	if w1.writes() != 0 || w2.writes() != 1 {
		t.Fatalf("unexpected writes a=%d b=%d", w1.writes(), w2.writes())
	}
}
