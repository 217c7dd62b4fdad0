package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is the subset of *manager.Uploader used by the S3 sink.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3 uploads artifacts under a bucket prefix.
type S3 struct {
	bucket   string
	prefix   string
	uploader Uploader
}

// ParseS3URL splits s3://bucket/prefix into its bucket and key prefix.
// The prefix has no leading or trailing slash.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidS3URL, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("%w: scheme must be s3, got %q", ErrInvalidS3URL, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: missing bucket in %q", ErrInvalidS3URL, raw)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// NewS3 builds an S3 sink from an s3:// URL using the default AWS
// credential chain (environment, shared config, instance role).
func NewS3(ctx context.Context, rawURL string, opts S3Options) (*S3, error) {
	bucket, prefix, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrUpload, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return NewS3WithUploader(bucket, prefix, manager.NewUploader(client)), nil
}

// NewS3WithUploader builds an S3 sink around an existing uploader.
func NewS3WithUploader(bucket, prefix string, uploader Uploader) *S3 {
	return &S3{bucket: bucket, prefix: strings.Trim(prefix, "/"), uploader: uploader}
}

// Write uploads data to s3://{bucket}/{prefix}/{name}.
func (s *S3) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}

	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(name)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3://%s/%s: %v", ErrUpload, s.bucket, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

var _ Sink = (*S3)(nil)
