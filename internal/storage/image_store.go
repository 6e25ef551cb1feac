// Package storage uploads tour images to an S3-compatible bucket.
package storage

import (
    "context"
    "errors"
    "fmt"
    "io"
    "strings"

    "github.com/aws/aws-sdk-go-v2/aws"
    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/s3"

    "github.com/iliyamo/ecotour-booking/internal/config"
)

// ErrNotConfigured is returned by NewS3ImageStore when no bucket is set.
var ErrNotConfigured = errors.New("image storage not configured")

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
    Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// putObjectAPI is the slice of the S3 client the store uses.
type putObjectAPI interface {
    PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageStore struct {
    client  putObjectAPI
    bucket  string
    baseURL string
}

// NewS3ImageStore builds an S3 client from cfg.  Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig) (*S3ImageStore, error) {
    if !cfg.Configured() {
        return nil, ErrNotConfigured
    }

    loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
    if cfg.AccessKey != "" && cfg.SecretKey != "" {
        loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
            credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
    }
    awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
    if err != nil {
        return nil, fmt.Errorf("load aws config: %w", err)
    }

    client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
        if cfg.Endpoint != "" {
            o.BaseEndpoint = aws.String(cfg.Endpoint)
        }
        o.UsePathStyle = cfg.ForcePathStyle
    })
    return newS3ImageStore(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3ImageStore(client putObjectAPI, bucket, baseURL string) *S3ImageStore {
    return &S3ImageStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put uploads body under key and returns baseURL/key.
func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
    _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket:        aws.String(s.bucket),
        Key:           aws.String(key),
        Body:          body,
        ContentType:   aws.String(contentType),
        ContentLength: aws.Int64(size),
        CacheControl:  aws.String("public, max-age=31536000, immutable"),
    })
    if err != nil {
        return "", fmt.Errorf("put object %s: %w", key, err)
    }
    return s.baseURL + "/" + key, nil
}
