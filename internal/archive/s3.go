package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores curated results under a key for later retrieval.
type Archiver interface {
	Store(ctx context.Context, key string, body []byte) error
}

// s3API is the subset of the S3 client used by the archiver.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes results to an S3 bucket.
type S3Archiver struct {
	client s3API
	bucket string
	logger *slog.Logger
}

// NewS3Archiver creates an archiver for the given bucket using the default
// AWS credential chain (environment variables, IAM roles, and profiles).
func NewS3Archiver(ctx context.Context, region, bucket string, logger *slog.Logger) (*S3Archiver, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	opts = append(opts, config.WithRetryMaxAttempts(3))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger.With("component", "archiver"),
	}, nil
}

// NewS3ArchiverWithClient creates an archiver with a caller-supplied client.
func NewS3ArchiverWithClient(client s3API, bucket string, logger *slog.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "archiver"),
	}
}

// Store uploads the body to the bucket under the given key.
func (a *S3Archiver) Store(ctx context.Context, key string, body []byte) error {
	contentType := "text/plain"
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to archive result to s3://%s/%s: %w", a.bucket, key, err)
	}

	a.logger.Info("Result archived.", "bucket", a.bucket, "key", key, "size_bytes", len(body))
	return nil
}

// ResultKey builds the object key for a job's archived result.
func ResultKey(prefix, jobID string) string {
	return prefix + jobID + ".txt"
}
