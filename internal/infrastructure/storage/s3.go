package storage

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool

	// PublicBaseURL prefixes object keys in returned URLs. When empty it is
	// derived from Endpoint and Bucket.
	PublicBaseURL string
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3AvatarStore keeps avatar images in an S3-compatible bucket (AWS, MinIO,
// R2). It implements auth.AvatarStore.
type S3AvatarStore struct {
	client    s3API
	bucket    string
	publicURL string
	log       zerolog.Logger
}

func NewS3AvatarStore(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3AvatarStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3AvatarStore(client, cfg, log), nil
}

func newS3AvatarStore(client s3API, cfg S3Config, log zerolog.Logger) *S3AvatarStore {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &S3AvatarStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: base,
		log:       log.With().Str("component", "s3_avatars").Logger(),
	}
}

func (s *S3AvatarStore) PutAvatar(ctx context.Context, userID int64, up auth.AvatarUpload) (string, error) {
	key := objectKey(userID, up.Filename)

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        up.Body,
		ContentType: aws.String(up.ContentType),
	}
	if up.Size > 0 {
		in.ContentLength = aws.Int64(up.Size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("put avatar failed")
		return "", domain.ErrStorageUnavailable(fmt.Errorf("put object %s: %w", key, err))
	}
	return s.PublicURL(key), nil
}

// EnsureBucket creates the bucket when it does not exist.
func (s *S3AvatarStore) EnsureBucket(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}

	s.log.Info().Str("bucket", s.bucket).Msg("creating bucket")
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3AvatarStore) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

func objectKey(userID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return "avatars/" + strconv.FormatInt(userID, 10) + "/" + uuid.NewString() + ext
}
