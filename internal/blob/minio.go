package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("filechat-lite/blob")

const minioScheme = "s3://"

// MinIO keeps content in an S3-compatible bucket. References have the form
// s3://<bucket>/<object key>.
type MinIO struct {
	client     *minio.Client
	bucketName string
}

func NewMinIO(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger *zap.Logger) (*MinIO, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if logger != nil {
			logger.Info("creating bucket", zap.String("bucket", bucketName))
		}
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIO{client: client, bucketName: bucketName}, nil
}

func (m *MinIO) Put(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	key := uuid.NewString()
	ctx, span := tracer.Start(ctx, "minio.put_object",
		trace.WithAttributes(
			attribute.String("object_key", key),
			attribute.String("file_name", name),
			attribute.Int64("size_bytes", size),
		),
	)
	defer span.End()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}
	_, err := m.client.PutObject(ctx, m.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", name),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return minioScheme + m.bucketName + "/" + key, nil
}

func (m *MinIO) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	key, ok := m.objectKey(ref)
	if !ok {
		return nil, ErrNotFound
	}
	ctx, span := tracer.Start(ctx, "minio.get_object",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	obj, err := m.client.GetObject(ctx, m.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return obj, nil
}

func (m *MinIO) Revoke(ctx context.Context, ref string) error {
	key, ok := m.objectKey(ref)
	if !ok {
		return nil
	}
	ctx, span := tracer.Start(ctx, "minio.remove_object",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	if err := m.client.RemoveObject(ctx, m.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (m *MinIO) objectKey(ref string) (string, bool) {
	prefix := minioScheme + m.bucketName + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, prefix)
	return key, key != ""
}
