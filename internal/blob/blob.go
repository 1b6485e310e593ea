// Package blob stores uploaded file content behind opaque references.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("content not found")

// Store maps file content to a reference that can later be opened or revoked.
type Store interface {
	Put(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Revoke(ctx context.Context, ref string) error
}

const memoryScheme = "blob:filechat/"

type memoryObject struct {
	name        string
	contentType string
	data        []byte
}

// Memory keeps content in process memory. References do not survive a
// restart, like browser object URLs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memoryObject)}
}

func (m *Memory) Put(_ context.Context, name, contentType string, _ int64, r io.Reader) (string, error) {
	var data []byte
	if r != nil {
		var err error
		data, err = io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
	}

	ref := memoryScheme + uuid.NewString()
	m.mu.Lock()
	m.objects[ref] = memoryObject{name: name, contentType: contentType, data: data}
	m.mu.Unlock()
	return ref, nil
}

func (m *Memory) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	m.mu.RLock()
	obj, ok := m.objects[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Revoke drops the content. Unknown references are ignored.
func (m *Memory) Revoke(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, memoryScheme) {
		return nil
	}
	m.mu.Lock()
	delete(m.objects, ref)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live references.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
