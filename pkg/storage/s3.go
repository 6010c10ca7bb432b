package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"hr-portal-backend/pkg/apperror"
)

// S3Config holds configuration for S3-compatible storage (AWS or any
// path-style compatible endpoint such as Wasabi/R2/MinIO).
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string

	// Endpoint overrides the AWS default for S3-compatible providers.
	// Empty means plain AWS S3.
	Endpoint string

	// PublicBaseURL is the prefix public object URLs are built from.
	// Empty means the standard virtual-hosted AWS URL.
	PublicBaseURL string

	// CallTimeout bounds each Store/Destroy call. The backend carries no
	// implicit timeout; expiry surfaces as a storage failure.
	CallTimeout time.Duration
}

type s3Gateway struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Gateway creates a Gateway backed by an S3 bucket.
func NewS3Gateway(ctx context.Context, cfg S3Config) (Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		// Compatible providers require a custom endpoint and path-style
		// addressing.
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + strings.TrimPrefix(cfg.Endpoint, "https://"))
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}

	return &s3Gateway{client: client, cfg: cfg}, nil
}

func (g *s3Gateway) Store(ctx context.Context, r io.Reader, folder string, kind ResourceKind) (*StoredObject, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()

	key := objectKey(folder, kind)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(g.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return nil, apperror.Storage("failed to store file in object storage", err)
	}

	return &StoredObject{
		Ref: key,
		URL: g.publicURL(key),
	}, nil
}

func (g *s3Gateway) Destroy(ctx context.Context, ref string, kind ResourceKind) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.cfg.Bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return apperror.Storage("failed to delete file from object storage", err)
	}
	return nil
}

// objectKey builds a collision-free key. The uuid keeps re-uploads distinct:
// a new upload never overwrites an older object.
func objectKey(folder string, kind ResourceKind) string {
	prefix := strings.Trim(folder, "/")
	if prefix == "" {
		prefix = "documents"
	}
	if kind == ResourceKindImage {
		prefix += "/images"
	}
	return fmt.Sprintf("%s/%s", prefix, uuid.NewString())
}

func (g *s3Gateway) publicURL(key string) string {
	if g.cfg.PublicBaseURL != "" {
		return strings.TrimRight(g.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.cfg.Bucket, g.cfg.Region, key)
}
