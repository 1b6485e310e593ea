package store

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filechat-lite/internal/latency"
	"filechat-lite/internal/model"
)

const (
	welcomeID   = "1"
	welcomeText = "Welcome to FileChat! Upload your files and start messaging."
)

// MessageStore keeps messages in the order they were sent. It never
// validates text; callers reject empty messages.
type MessageStore struct {
	mu   sync.RWMutex
	data []model.MessageRecord

	latency latency.Profile
	logger  *zap.Logger
	now     func() time.Time
	ids     *idGenerator
}

func NewMessageStore(opts Options) *MessageStore {
	opts = opts.withDefaults()
	s := &MessageStore{
		latency: opts.Latency,
		logger:  opts.Logger,
		now:     opts.Now,
		ids:     newIDGenerator(),
	}
	s.data = []model.MessageRecord{{
		ID:        welcomeID,
		Text:      welcomeText,
		Sender:    model.SystemSender,
		Timestamp: s.now(),
	}}
	return s
}

// List returns a copy of the collection in the order messages were sent.
func (s *MessageStore) List() []model.MessageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.MessageRecord, len(s.data))
	copy(result, s.data)
	return result
}

// Len reports the number of stored messages.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Send appends a message and returns a completion resolving with it.
func (s *MessageStore) Send(ctx context.Context, text, sender string) *latency.Completion[model.MessageRecord] {
	_, span := tracer.Start(ctx, "store.send_message",
		trace.WithAttributes(attribute.String("sender", sender)),
	)
	defer span.End()

	now := s.now()
	msg := model.MessageRecord{
		ID:        s.ids.next(now),
		Text:      text,
		Sender:    sender,
		Timestamp: now,
	}

	s.mu.Lock()
	s.data = append(s.data, msg)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("message_id", msg.ID))
	s.logger.Debug("message sent", zap.String("id", msg.ID), zap.String("sender", sender))
	return latency.After(msg, s.latency.MessageSend)
}

// Delete removes the message with the given id, if any.
func (s *MessageStore) Delete(ctx context.Context, id string) *latency.Completion[struct{}] {
	_, span := tracer.Start(ctx, "store.delete_message",
		trace.WithAttributes(attribute.String("message_id", id)),
	)
	defer span.End()

	s.mu.Lock()
	kept := make([]model.MessageRecord, 0, len(s.data))
	for _, msg := range s.data {
		if msg.ID != id {
			kept = append(kept, msg)
		}
	}
	found := len(kept) != len(s.data)
	s.data = kept
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("found", found))
	return latency.After(struct{}{}, s.latency.MessageDelete)
}
