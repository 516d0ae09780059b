package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/config"
)

type fakeS3 struct {
	s3iface.S3API
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestNewKeyKeepsExtension(t *testing.T) {
	cases := map[string]string{
		"photo.PNG":      ".png",
		"archive.tar.gz": ".gz",
		"noext":          "",
		"dir/evil.jpg":   ".jpg",
		"trailing.":      "",
	}
	for name, ext := range cases {
		key := NewKey(name)
		assert.True(t, strings.HasPrefix(key, KeyPrefix), key)
		assert.True(t, strings.HasSuffix(key, ext), key)
		base := strings.TrimSuffix(strings.TrimPrefix(key, KeyPrefix), ext)
		assert.Len(t, base, 36, key)
	}
	assert.NotEqual(t, NewKey("a.png"), NewKey("a.png"))
}

func TestPublicURL(t *testing.T) {
	key := "products/abc.png"
	assert.Equal(t, "https://cdn.example.com/products/abc.png",
		PublicURL(config.S3Config{PublicURL: "https://cdn.example.com", Endpoint: "http://minio:9000", Bucket: "images"}, key))
	assert.Equal(t, "http://minio:9000/images/products/abc.png",
		PublicURL(config.S3Config{Endpoint: "http://minio:9000", Bucket: "images"}, key))
	assert.Equal(t, "https://images.s3.eu-west-1.amazonaws.com/products/abc.png",
		PublicURL(config.S3Config{Bucket: "images", Region: "eu-west-1"}, key))
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	cfg := config.S3Config{Region: "us-east-1", Bucket: "images", PublicURL: "https://cdn.example.com", PublicRead: true}
	u := NewS3WithClient(fake, cfg)

	url, err := u.Upload(context.Background(), "tee.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	require.NotNil(t, fake.in)
	assert.Equal(t, "images", aws.StringValue(fake.in.Bucket))
	assert.Equal(t, "image/jpeg", aws.StringValue(fake.in.ContentType))
	assert.Equal(t, s3.ObjectCannedACLPublicRead, aws.StringValue(fake.in.ACL))
	assert.Equal(t, "jpeg-bytes", fake.body)
	assert.Equal(t, "https://cdn.example.com/"+aws.StringValue(fake.in.Key), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("AccessDenied")}
	u := NewS3WithClient(fake, config.S3Config{Region: "us-east-1", Bucket: "images"})

	_, err := u.Upload(context.Background(), "tee.png", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "AccessDenied")
	assert.Nil(t, fake.in.ACL)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(config.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
