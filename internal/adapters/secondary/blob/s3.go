package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"model-asset-service/internal/config"
	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

const (
	defaultTimeout   = 30 * time.Second
	uploadBufferSize = 1 << 20
)

// S3API is the subset of the S3 client used by S3Storage.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Storage keeps blobs in an S3-compatible bucket.
type S3Storage struct {
	client  S3API
	bucket  string
	baseURL string
}

func NewS3Storage(cfg *config.S3Config, baseURL string) (ports.BlobStorage, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing required configuration: access key id, secret access key and bucket are required")
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
		UsePathStyle:     cfg.UsePathStyle,
		RetryMode:        aws.RetryModeAdaptive,
		RetryMaxAttempts: 3,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	if baseURL == "" || baseURL == config.DefaultMediaURL {
		baseURL = bucketURL(cfg)
	}

	st := NewS3StorageWithClient(s3.New(opts), cfg.Bucket, baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if _, err := st.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("unable to access bucket %s: %w", cfg.Bucket, err)
	}
	return st, nil
}

func NewS3StorageWithClient(client S3API, bucket, baseURL string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, baseURL: baseURL}
}

// Put buffers the body so the SDK can sign a seekable payload.
func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, uploadBufferSize))
	n, err := io.Copy(buf, r)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(n),
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}
	return n, nil
}

func (s *S3Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, domain.ErrBlobNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *S3Storage) Size(ctx context.Context, key string) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, domain.ErrBlobNotFound
		}
		return 0, fmt.Errorf("head object %s: %w", key, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}

// Delete succeeds for missing keys; S3 DeleteObject is already idempotent.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func bucketURL(cfg *config.S3Config) string {
	if cfg.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	if cfg.UsePathStyle {
		return joinURL(cfg.Endpoint, cfg.Bucket)
	}
	return cfg.Endpoint
}
