package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/rmgweb/pkg/errors"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *mockObjectAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *mockObjectAPI) PutObject(ctx context.Context, bucket, name string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, name, reader, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockObjectAPI) StatObject(ctx context.Context, bucket, name string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, name, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockObjectAPI) RemoveObject(ctx context.Context, bucket, name string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucket, name, opts).Error(0)
}

func (m *mockObjectAPI) FetchObject(ctx context.Context, bucket, name string) (io.ReadCloser, minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, name)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Get(1).(minio.ObjectInfo), args.Error(2)
}

var errNoSuchKey = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}

func newTestClient(t *testing.T, api *mockObjectAPI) *MinIOClient {
	t.Helper()
	api.On("BucketExists", mock.Anything, "depictions").Return(true, nil).Once()
	c, err := NewMinIOClientWithAPI(context.Background(), api, &MinIOConfig{Endpoint: "minio:9000", Bucket: "depictions"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestApplyDefaults(t *testing.T) {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "rmgweb-depictions", cfg.Bucket)
}

func TestNewMinIOClient_ExistingBucket(t *testing.T) {
	api := &mockObjectAPI{}
	c := newTestClient(t, api)
	assert.Equal(t, "depictions", c.Bucket())
	api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewMinIOClient_CreatesBucket(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("BucketExists", mock.Anything, "rmgweb-depictions").Return(false, nil)
	api.On("MakeBucket", mock.Anything, "rmgweb-depictions", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	_, err := NewMinIOClientWithAPI(context.Background(), api, &MinIOConfig{}, nil)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestNewMinIOClient_Unreachable(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("BucketExists", mock.Anything, "rmgweb-depictions").Return(false, errors.New("dial tcp: connection refused"))

	c, err := NewMinIOClientWithAPI(context.Background(), api, &MinIOConfig{}, nil)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func TestNewMinIOClient_MakeBucketFails(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("BucketExists", mock.Anything, mock.Anything).Return(false, nil)
	api.On("MakeBucket", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))

	_, err := NewMinIOClientWithAPI(context.Background(), api, &MinIOConfig{}, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeStorage))
}

func TestHealthCheck(t *testing.T) {
	api := &mockObjectAPI{}
	c := newTestClient(t, api)

	api.On("BucketExists", mock.Anything, "depictions").Return(true, nil).Once()
	assert.NoError(t, c.HealthCheck(context.Background()))

	api.On("BucketExists", mock.Anything, "depictions").Return(false, nil).Once()
	assert.Error(t, c.HealthCheck(context.Background()))

	api.On("BucketExists", mock.Anything, "depictions").Return(false, errors.New("timeout")).Once()
	err := c.HealthCheck(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(errNoSuchKey))
	assert.True(t, isNotFound(minio.ErrorResponse{StatusCode: 404}))
	assert.False(t, isNotFound(errors.New("boom")))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}))
}

//Personal.AI order the ending
