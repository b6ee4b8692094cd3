// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/ai-pills/internal/config"
)

const defaultContentType = "application/octet-stream"

// s3API is the part of *s3.Client the backend calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// s3Backend keeps objects under {prefix}/{fileType}/{owner}/{filename}.
// Locators are object keys.
type s3Backend struct {
	client   s3API
	bucket   string
	region   string
	prefix   string
	endpoint string
}

func newS3Backend(ctx context.Context, cfg config.S3) (*s3Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3BackendWithClient(client, cfg), nil
}

func newS3BackendWithClient(client s3API, cfg config.S3) *s3Backend {
	return &s3Backend{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

func (b *s3Backend) store(ctx context.Context, content []byte, filename, ownerID string, fileType FileType, contentType string) (string, string, error) {
	key := path.Join(b.prefix, string(fileType), ownerID, filename)
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return key, "", err
	}

	return key, b.url(key), nil
}

func (b *s3Backend) retrieve(ctx context.Context, locator string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (b *s3Backend) delete(ctx context.Context, locator string) (bool, error) {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *s3Backend) exists(ctx context.Context, locator string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// cleanupTemp is a no-op; bucket lifecycle rules expire temp objects.
func (b *s3Backend) cleanupTemp(context.Context, time.Time) int {
	return 0
}

func (b *s3Backend) publicDir() (string, bool) {
	return "", false
}

func (b *s3Backend) kind() Backend {
	return BackendS3
}

func (b *s3Backend) url(key string) string {
	if b.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", b.endpoint, b.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
}
