package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"catalog/internal/config"
)

// KeyPrefix is where product images live inside the bucket.
const KeyPrefix = "products/"

// ErrNotConfigured is returned by uploads when no bucket is set up.
var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader stores an image and returns a URL anyone can fetch it from.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (string, error)
}

// S3 uploads to an S3-compatible bucket.
type S3 struct {
	client s3iface.S3API
	cfg    config.S3Config
}

var _ Uploader = (*S3)(nil)

// NewS3 builds a client from cfg. Static credentials are used when both
// keys are set, otherwise the SDK's default chain.
func NewS3(cfg config.S3Config) (*S3, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return NewS3WithClient(s3.New(sess), cfg), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client s3iface.S3API, cfg config.S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

func (u *S3) Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (string, error) {
	key := NewKey(filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if u.cfg.PublicRead {
		in.ACL = aws.String(s3.ObjectCannedACLPublicRead)
	}
	if _, err := u.client.PutObjectWithContext(ctx, in); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", u.cfg.Bucket, key, err)
	}
	return PublicURL(u.cfg, key), nil
}

// NewKey returns a random object key that keeps filename's extension.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "." {
		ext = ""
	}
	return KeyPrefix + uuid.NewString() + ext
}

// PublicURL is the address an uploaded object is served from.
func PublicURL(cfg config.S3Config, key string) string {
	switch {
	case cfg.PublicURL != "":
		return cfg.PublicURL + "/" + key
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", cfg.Endpoint, cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
	}
}
