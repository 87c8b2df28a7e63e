package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"go.uber.org/zap"
)

// s3API is the subset of the S3 client used here
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3PhotoStorage keeps photos in an S3-compatible bucket (AWS S3, MinIO, RustFS)
type S3PhotoStorage struct {
	client        s3API
	bucket        string
	keyPrefix     string
	publicBaseURL string
	maxSize       int64
	logger        *zap.Logger
}

// S3Option is a functional option for configuring S3PhotoStorage
type S3Option func(*S3PhotoStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3PhotoStorage) {
		s.logger = logger
	}
}

// WithKeyPrefix sets the folder objects are written under (default "photos/")
func WithKeyPrefix(prefix string) S3Option {
	return func(s *S3PhotoStorage) {
		s.keyPrefix = strings.Trim(prefix, "/") + "/"
	}
}

// NewS3PhotoStorage creates an S3 photo store from configuration
func NewS3PhotoStorage(ctx context.Context, cfg config.S3Config, maxSize int64, opts ...S3Option) (*S3PhotoStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint))
		}
	})

	return newS3PhotoStorage(client, cfg.Bucket, cfg.PublicBaseURL, maxSize, opts...), nil
}

func newS3PhotoStorage(client s3API, bucket, publicBaseURL string, maxSize int64, opts ...S3Option) *S3PhotoStorage {
	s := &S3PhotoStorage{
		client:        client,
		bucket:        bucket,
		keyPrefix:     "photos/",
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize:       maxSize,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func endpointURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3PhotoStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Save implements PhotoStorage
func (s *S3PhotoStorage) Save(ctx context.Context, upload Upload) (string, error) {
	data, contentType, err := ReadPhoto(upload, s.maxSize)
	if err != nil {
		return "", err
	}

	key := s.keyPrefix + NewObjectName(upload.Filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	s.logger.Debug("Photo uploaded", zap.String("key", key), zap.Int("size", len(data)))
	return s.refOf(key), nil
}

// Open implements PhotoStorage
func (s *S3PhotoStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyOf(ref)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	return out.Body, nil
}

// Delete implements PhotoStorage
func (s *S3PhotoStorage) Delete(ctx context.Context, ref string) error {
	key := s.keyOf(ref)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// GetBucket returns the bucket name
func (s *S3PhotoStorage) GetBucket() string {
	return s.bucket
}

func (s *S3PhotoStorage) refOf(key string) string {
	if s.publicBaseURL == "" {
		return key
	}
	return s.publicBaseURL + "/" + key
}

func (s *S3PhotoStorage) keyOf(ref string) string {
	if s.publicBaseURL != "" {
		ref = strings.TrimPrefix(ref, s.publicBaseURL+"/")
	}
	return strings.TrimPrefix(ref, "/")
}

var _ PhotoStorage = (*S3PhotoStorage)(nil)
