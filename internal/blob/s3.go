// Package blob provides the remote photo storage adapter. Production storage
// is a Backblaze B2 bucket spoken to through the S3-compatible API, so the
// adapter is built on the AWS SDK with a custom endpoint and path-style URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store is the narrow blob-storage interface the service layer consumes.
// Upload returns the public URL of the stored object; Delete takes that URL
// back and removes the object. Both are fallible and failures propagate;
// there is no retry or compensation at this layer.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Config carries the S3-compatible endpoint settings.
type Config struct {
	Endpoint string // e.g. https://s3.eu-central-003.backblazeb2.com
	Region   string
	Bucket   string
	KeyID    string
	AppKey   string
}

// S3Store implements Store against an S3-compatible bucket.
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Store constructs an S3Store from static credentials and a custom
// endpoint. Path-style addressing is required by Backblaze.
func NewS3Store(cfg Config) *S3Store {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.AppKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

// Upload stores the body under a fresh object key derived from the original
// filename and returns the public URL for the object.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), path.Base(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blob.S3Store.Upload: %w", err)
	}

	// Public URL format for a public bucket; private buckets would need
	// pre-signed URLs instead.
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// Delete removes the object the URL points at.
func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key := KeyFromURL(rawURL)
	if key == "" {
		return fmt.Errorf("blob.S3Store.Delete: no object key in url %q", rawURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob.S3Store.Delete: %w", err)
	}
	return nil
}

// KeyFromURL extracts the object key from a path-style public URL
// (https://endpoint/bucket/key). Returns "" when the URL has no key part.
func KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	slash := strings.Index(p, "/")
	if slash < 0 {
		return ""
	}
	return p[slash+1:]
}
