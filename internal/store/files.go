package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filechat-lite/internal/blob"
	"filechat-lite/internal/latency"
	"filechat-lite/internal/model"
)

var tracer = otel.Tracer("filechat-lite/store")

var ErrFileNotFound = errors.New("file not found")

type Options struct {
	Latency latency.Profile
	Blobs   blob.Store
	Logger  *zap.Logger
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Blobs == nil {
		o.Blobs = blob.NewMemory()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// FileStore keeps file records newest-first. Mutations take effect when the
// call returns; only the returned completion is delayed.
type FileStore struct {
	mu    sync.RWMutex
	files []model.FileRecord

	blobs   blob.Store
	latency latency.Profile
	logger  *zap.Logger
	now     func() time.Time
	ids     *idGenerator
}

func NewFileStore(opts Options) *FileStore {
	opts = opts.withDefaults()
	return &FileStore{
		blobs:   opts.Blobs,
		latency: opts.Latency,
		logger:  opts.Logger,
		now:     opts.Now,
		ids:     newIDGenerator(),
	}
}

// List returns a copy of the collection, newest first.
func (s *FileStore) List() []model.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.FileRecord, len(s.files))
	copy(result, s.files)
	return result
}

// Len reports the number of stored files.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Get returns the record with the given id.
func (s *FileStore) Get(id string) (model.FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return model.FileRecord{}, false
}

// Upload stores content, prepends the new record and returns a completion
// resolving with it. An error is returned only when the content could not be
// stored, in which case the collection is unchanged.
func (s *FileStore) Upload(ctx context.Context, content io.Reader, name string, size int64, mimeType string) (*latency.Completion[model.FileRecord], error) {
	ctx, span := tracer.Start(ctx, "store.upload_file",
		trace.WithAttributes(
			attribute.String("file_name", name),
			attribute.Int64("size_bytes", size),
			attribute.String("content_type", mimeType),
		),
	)
	defer span.End()

	url, err := s.blobs.Put(ctx, name, mimeType, size, content)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store content: %w", err)
	}

	now := s.now()
	f := model.FileRecord{
		ID:       s.ids.next(now),
		Name:     name,
		Size:     size,
		Type:     mimeType,
		Uploaded: now,
		URL:      url,
	}

	s.mu.Lock()
	s.files = append([]model.FileRecord{f}, s.files...)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("file_id", f.ID))
	s.logger.Debug("file uploaded", zap.String("id", f.ID), zap.String("name", name), zap.Int64("size", size))
	return latency.After(f, s.latency.FileUpload), nil
}

// Delete removes the record with the given id and releases its content.
// Unknown ids are not an error.
func (s *FileStore) Delete(ctx context.Context, id string) *latency.Completion[struct{}] {
	ctx, span := tracer.Start(ctx, "store.delete_file",
		trace.WithAttributes(attribute.String("file_id", id)),
	)
	defer span.End()

	var removed []model.FileRecord
	s.mu.Lock()
	kept := make([]model.FileRecord, 0, len(s.files))
	for _, f := range s.files {
		if f.ID == id {
			removed = append(removed, f)
			continue
		}
		kept = append(kept, f)
	}
	s.files = kept
	s.mu.Unlock()

	for _, f := range removed {
		if err := s.blobs.Revoke(ctx, f.URL); err != nil {
			span.RecordError(err)
			s.logger.Warn("file delete: revoke content failed", zap.String("id", f.ID), zap.Error(err))
		}
	}
	span.SetAttributes(attribute.Bool("found", len(removed) > 0))
	return latency.After(struct{}{}, s.latency.FileDelete)
}

// Open returns the record and a reader over its content.
func (s *FileStore) Open(ctx context.Context, id string) (model.FileRecord, io.ReadCloser, error) {
	f, ok := s.Get(id)
	if !ok {
		return model.FileRecord{}, nil, ErrFileNotFound
	}
	rc, err := s.blobs.Open(ctx, f.URL)
	if err != nil {
		return model.FileRecord{}, nil, fmt.Errorf("open content: %w", err)
	}
	return f, rc, nil
}
