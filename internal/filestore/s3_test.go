package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

type fakeS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
	puts         int
	err          error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts++
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = body
	f.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func newS3Storage(client *fakeS3, cfg config.S3) *Storage {
	return newStorage(newS3BackendWithClient(client, cfg), 16, logger.Nop())
}

var testS3Config = config.S3{Bucket: "ai-pills-storage", Region: "eu-central-1", Prefix: "uploads"}

func TestS3_StoreKeyAndURL(t *testing.T) {
	client := newFakeS3()
	s := newS3Storage(client, testS3Config)

	locator, url, err := s.Store(context.Background(), []byte("zip"), "agent.zip", "owner-1", FileTypeAgents, "application/zip")
	require.NoError(t, err)

	assert.Equal(t, "uploads/agents/owner-1/agent.zip", locator)
	assert.Equal(t, "https://ai-pills-storage.s3.eu-central-1.amazonaws.com/uploads/agents/owner-1/agent.zip", url)
	assert.Equal(t, "application/zip", client.contentTypes[locator])
	assert.Equal(t, BackendS3, s.Backend())
}

func TestS3_CustomEndpointURL(t *testing.T) {
	cfg := testS3Config
	cfg.Endpoint = "http://localhost:9000/"
	cfg.Prefix = "/files/"
	s := newS3Storage(newFakeS3(), cfg)

	locator, url, err := s.Store(context.Background(), []byte("x"), "a.txt", "owner-1", FileTypeGeneral, "")
	require.NoError(t, err)
	assert.Equal(t, "files/general/owner-1/a.txt", locator)
	assert.Equal(t, "http://localhost:9000/ai-pills-storage/files/general/owner-1/a.txt", url)
}

func TestS3_DefaultContentType(t *testing.T) {
	client := newFakeS3()
	s := newS3Storage(client, config.S3{Bucket: "b", Region: "r"})

	locator, _, err := s.Store(context.Background(), []byte("x"), "a.bin", "owner-1", FileTypeGeneral, "")
	require.NoError(t, err)
	assert.Equal(t, "general/owner-1/a.bin", locator, "empty prefix adds no leading segment")
	assert.Equal(t, defaultContentType, client.contentTypes[locator])
}

func TestS3_RoundTripOverwriteDelete(t *testing.T) {
	s := newS3Storage(newFakeS3(), testS3Config)
	ctx := context.Background()

	first, _, err := s.Store(ctx, []byte("first"), "a.txt", "owner-1", FileTypeGeneral, "")
	require.NoError(t, err)
	second, _, err := s.Store(ctx, []byte("second"), "a.txt", "owner-1", FileTypeGeneral, "")
	require.NoError(t, err)
	require.Equal(t, first, second)

	got, err := s.Retrieve(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
	assert.True(t, s.Exists(ctx, second))

	deleted, err := s.Delete(ctx, second)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, s.Exists(ctx, second))

	found, err := s.Stat(ctx, second)
	require.NoError(t, err, "a missing object is a confirmed answer")
	assert.False(t, found)

	_, err = s.Retrieve(ctx, second)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3_SizeLimitSkipsPut(t *testing.T) {
	client := newFakeS3()
	s := newS3Storage(client, testS3Config)

	_, _, err := s.Store(context.Background(), make([]byte, 17), "big.bin", "owner-1", FileTypeGeneral, "")
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)
	assert.Zero(t, client.puts)
}

func TestS3_TransportErrorsWrapped(t *testing.T) {
	client := newFakeS3()
	client.err = errors.New("connection reset")
	s := newS3Storage(client, testS3Config)
	ctx := context.Background()

	_, _, err := s.Store(ctx, []byte("x"), "a.txt", "owner-1", FileTypeGeneral, "")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, client.err)

	_, err = s.Retrieve(ctx, "k")
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = s.Delete(ctx, "k")
	assert.ErrorIs(t, err, ErrStorage)

	assert.False(t, s.Exists(ctx, "k"), "errors read as absent")

	found, err := s.Stat(ctx, "k")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, client.err)
	assert.Zero(t, s.CleanupTemp(ctx, time.Hour))

	_, ok := s.PublicDir()
	assert.False(t, ok)
}

func TestNewS3Backend_Options(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var got awsconfig.LoadOptions
	loadDefaultAWSConfig = func(_ context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, opt := range opts {
			require.NoError(t, opt(&got))
		}
		return aws.Config{Region: got.Region}, nil
	}

	cfg := testS3Config
	cfg.AccessKeyID = "key"
	cfg.SecretAccessKey = "secret"
	cfg.Endpoint = "http://minio:9000"

	b, err := newS3Backend(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", got.Region)
	require.NotNil(t, got.Credentials)

	creds, err := got.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	assert.Equal(t, "ai-pills-storage", b.bucket)
	assert.Equal(t, "http://minio:9000", b.endpoint)
}

func TestNewS3Backend_DefaultCredentialChain(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var got awsconfig.LoadOptions
	loadDefaultAWSConfig = func(_ context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, opt := range opts {
			require.NoError(t, opt(&got))
		}
		return aws.Config{}, nil
	}

	_, err := newS3Backend(context.Background(), testS3Config)
	require.NoError(t, err)
	assert.Nil(t, got.Credentials)
}

func TestNew_S3ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, assert.AnError
	}

	_, err := New(context.Background(), config.Files{Backend: config.BackendS3, S3: testS3Config}, logger.Nop())
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, ErrStorage)
}
