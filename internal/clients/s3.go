package clients

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/segyhp/auction-billing/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// XLSXContentType is the MIME type of generated reports
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// S3Client uploads reports to an S3 compatible bucket and hands out presigned links
type S3Client struct {
	raw        *minio.Client
	bucket     string
	prefix     string
	presignTTL time.Duration
}

func NewS3Client(cfg config.S3Config, presignTTL time.Duration) (*S3Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Client{
		raw:        client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		presignTTL: presignTTL,
	}, nil
}

// EnsureBucket creates the bucket when it is missing
func (c *S3Client) EnsureBucket(ctx context.Context, region string) error {
	exists, err := c.raw.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q failed: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.raw.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %q failed: %w", c.bucket, err)
	}
	return nil
}

// Store uploads an XLSX file and returns its object key and a temporary download URL
func (c *S3Client) Store(ctx context.Context, fileName string, data []byte) (string, string, error) {
	key := ObjectKey(c.prefix, fileName)

	_, err := c.raw.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: XLSXContentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %q failed: %w", key, err)
	}

	u, err := c.raw.PresignedGetObject(ctx, c.bucket, key, c.presignTTL, nil)
	if err != nil {
		return key, "", fmt.Errorf("presign get object %q failed: %w", key, err)
	}

	return key, u.String(), nil
}

// ObjectKey joins the configured prefix and the file name without doubled slashes
func ObjectKey(prefix string, fileName string) string {
	if prefix == "" {
		return path.Base(fileName)
	}
	return path.Join(prefix, path.Base(fileName))
}
