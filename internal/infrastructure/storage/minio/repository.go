package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeDepictionNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeBadRequest, "invalid object request")
)

// Object is an open object.  Callers must Close Body.
type Object struct {
	Body         io.ReadCloser
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// ObjectStore reads and writes objects in one bucket.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)
	// Get returns ErrObjectNotFound when key does not exist.
	Get(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type minioRepository struct {
	client  *MinIOClient
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewObjectStore returns an ObjectStore over client's bucket.  metrics may be
// nil.
func NewObjectStore(client *MinIOClient, logger logging.Logger, metrics *prometheus.AppMetrics) ObjectStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &minioRepository{client: client, logger: logger, metrics: metrics}
}

func (r *minioRepository) observe(ctx context.Context, op, key string, start time.Time, err error) {
	d := time.Since(start)
	logging.LogStorageCall(r.logger.WithContext(ctx), op, key, d, err)
	prometheus.RecordStorageCall(r.metrics, op, d, err)
}

func (r *minioRepository) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (info *ObjectInfo, err error) {
	if key == "" || body == nil {
		return nil, ErrInvalidRequest.WithDetail("key and body are required")
	}
	start := time.Now()
	defer func() { r.observe(ctx, "put", key, start, err) }()

	up, err := r.client.api.PutObject(ctx, r.client.Bucket(), key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to upload object").WithDetail(key)
	}
	return &ObjectInfo{Key: key, Size: up.Size, ETag: up.ETag, ContentType: contentType}, nil
}

func (r *minioRepository) Get(ctx context.Context, key string) (obj *Object, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrObjectNotFound) {
			r.observe(ctx, "get", key, start, nil)
			return
		}
		r.observe(ctx, "get", key, start, err)
	}()

	body, info, err := r.client.api.FetchObject(ctx, r.client.Bucket(), key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to fetch object").WithDetail(key)
	}
	return &Object{
		Body:         body,
		ContentType:  info.ContentType,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (r *minioRepository) Exists(ctx context.Context, key string) (ok bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "stat", key, start, err) }()

	_, err = r.client.api.StatObject(ctx, r.client.Bucket(), key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorage, "failed to stat object").WithDetail(key)
}

func (r *minioRepository) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "delete", key, start, err) }()

	if err = r.client.api.RemoveObject(ctx, r.client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "failed to delete object").WithDetail(key)
	}
	return nil
}

//Personal.AI order the ending
