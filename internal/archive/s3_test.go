package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockS3API implements the s3API interface for testing.
type mockS3API struct {
	PutObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return nil, errors.New("PutObjectFunc not implemented")
}

func TestStore_Success(t *testing.T) {
	var gotBucket, gotKey, gotContentType string
	var gotBody []byte

	mock := &mockS3API{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			gotBucket = aws.ToString(params.Bucket)
			gotKey = aws.ToString(params.Key)
			gotContentType = aws.ToString(params.ContentType)
			gotBody, _ = io.ReadAll(params.Body)
			return &s3.PutObjectOutput{}, nil
		},
	}

	archiver := NewS3ArchiverWithClient(mock, "results-bucket", testLogger())
	err := archiver.Store(context.Background(), "curated/job-123.txt", []byte("CURATED TEXT"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotBucket != "results-bucket" {
		t.Errorf("Expected bucket 'results-bucket', got '%s'", gotBucket)
	}
	if gotKey != "curated/job-123.txt" {
		t.Errorf("Expected key 'curated/job-123.txt', got '%s'", gotKey)
	}
	if string(gotBody) != "CURATED TEXT" {
		t.Errorf("Expected body 'CURATED TEXT', got '%s'", gotBody)
	}
	if gotContentType != "text/plain" {
		t.Errorf("Expected content type 'text/plain', got '%s'", gotContentType)
	}
}

func TestStore_Error(t *testing.T) {
	mock := &mockS3API{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	archiver := NewS3ArchiverWithClient(mock, "results-bucket", testLogger())
	err := archiver.Store(context.Background(), "key", []byte("data"))
	if err == nil {
		t.Fatal("Expected an error from a failed PutObject")
	}
}

func TestResultKey(t *testing.T) {
	tests := []struct {
		prefix string
		jobID  string
		want   string
	}{
		{"", "job-1", "job-1.txt"},
		{"curated/", "job-1", "curated/job-1.txt"},
		{"a/b/", "job-2", "a/b/job-2.txt"},
	}
	for _, tt := range tests {
		if got := ResultKey(tt.prefix, tt.jobID); got != tt.want {
			t.Errorf("ResultKey(%q, %q) = %q, expected %q", tt.prefix, tt.jobID, got, tt.want)
		}
	}
}
