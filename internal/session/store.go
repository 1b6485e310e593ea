// Package session holds the single authenticated identity of the running
// process and mirrors it into a durable slot.
//
// Credentials are never checked against an authority: any non-empty input
// is accepted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"filechat-lite/internal/model"
)

var (
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRegistration = errors.New("Invalid registration data")

	errMissingIdentityID = errors.New("identity has no id")
)

type Store struct {
	// writeMu orders identity changes together with their slot writes so
	// the durable copy always ends up matching current.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current *model.Identity

	slot   Slot
	logger *zap.Logger
	newID  func() string
}

type Options struct {
	Logger *zap.Logger
	NewID  func() string
}

func New(slot Slot) *Store {
	return NewWithOptions(slot, Options{})
}

func NewWithOptions(slot Slot, opts Options) *Store {
	s := &Store{
		slot:   slot,
		logger: opts.Logger,
		newID:  opts.NewID,
	}
	if s.slot == nil {
		s.slot = NewMemorySlot()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = func() string { return "user-" + uuid.NewString() }
	}
	return s
}

// Restore loads the persisted identity. A value that cannot be parsed is
// removed from the slot and leaves no current identity.
func (s *Store) Restore(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, ok, err := s.slot.Load(ctx)
	if err != nil {
		s.logger.Warn("session restore: load failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var id model.Identity
	err = json.Unmarshal(data, &id)
	if err == nil && id.ID == "" {
		err = errMissingIdentityID
	}
	if err != nil {
		s.logger.Warn("session restore: discarding malformed identity", zap.Error(err))
		if err := s.slot.Clear(ctx); err != nil {
			s.logger.Warn("session restore: clear failed", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	s.logger.Info("session restored", zap.String("identity", id.ID), zap.String("username", id.Username))
}

func (s *Store) Login(ctx context.Context, email, password string) (model.Identity, error) {
	if email == "" || password == "" {
		return model.Identity{}, ErrInvalidCredentials
	}
	id := model.Identity{
		ID:       s.newID(),
		Username: localPart(email),
		Email:    email,
	}
	s.establish(ctx, id)
	return id, nil
}

func (s *Store) Register(ctx context.Context, username, email, password string) (model.Identity, error) {
	if username == "" || email == "" || password == "" {
		return model.Identity{}, ErrInvalidRegistration
	}
	id := model.Identity{
		ID:       s.newID(),
		Username: username,
		Email:    email,
	}
	s.establish(ctx, id)
	return id, nil
}

func (s *Store) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn("session persistence: clear failed", zap.Error(err))
	}
}

func (s *Store) Current() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.Identity{}, false
	}
	return *s.current, true
}

// establish makes id current and mirrors it into the slot. Persistence
// failures are logged; the in-memory session stays valid.
func (s *Store) establish(ctx context.Context, id model.Identity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	data, err := json.Marshal(id)
	if err != nil {
		s.logger.Error("session persistence: marshal failed", zap.Error(err))
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Error("session persistence: save failed", zap.Error(err))
	}
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
