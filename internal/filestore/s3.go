package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 stores public-read files in a bucket.
type S3 struct {
	bucket    string
	publicURL string
	uploader  *s3manager.Uploader
	svc       s3iface.S3API
}

// NewS3 creates new instance of S3. Empty publicURL means that upload location is returned as url.
func NewS3(cfg *aws.Config, bucket, publicURL string) (*S3, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	svc := s3.New(sess)

	return &S3{
		bucket:    bucket,
		publicURL: publicURL,
		uploader:  s3manager.NewUploaderWithClient(svc),
		svc:       svc,
	}, nil
}

// Put implements Store.
func (s *S3) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	in := &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	out, err := s.uploader.UploadWithContext(ctx, in)
	if err != nil {
		return "", fmt.Errorf("failed to upload: %w", err)
	}

	if s.publicURL != "" {
		return joinURL(s.publicURL, key), nil
	}

	return out.Location, nil
}

// Delete implements Store.
func (s *S3) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if _, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}
