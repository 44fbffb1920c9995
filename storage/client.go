// Package storage wraps MinIO for profile avatar objects. When no endpoint
// is configured the client is disabled and every operation returns
// ErrDisabled, so local setups without object storage still run.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled is returned when storage is not configured.
var ErrDisabled = fmt.Errorf("storage service not configured")

// Config holds MinIO connection settings.
type Config struct {
	Endpoint        string // e.g. "minio:9000" or "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	PublicBaseURL   string // base URL clients use to fetch objects
}

// ConfigFromEnv reads MinIO settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		Endpoint:        os.Getenv("MINIO_ENDPOINT"),
		AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:          os.Getenv("MINIO_USE_SSL") == "true",
		Bucket:          envOr("MINIO_BUCKET", "avatars"),
		PublicBaseURL:   os.Getenv("MINIO_PUBLIC_URL"),
	}
}

// Client provides avatar object storage backed by a single bucket.
type Client struct {
	mc      *minio.Client
	cfg     Config
	enabled bool
}

// NewClient creates a storage client. An empty Endpoint disables it.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc, cfg: cfg, enabled: true}, nil
}

// EnsureBucket creates the avatar bucket if it does not exist (idempotent).
func (c *Client) EnsureBucket(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	exists, err := c.mc.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.mc.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{})
}

// PutObject uploads an avatar object and returns its public URL.
func (c *Client) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return "", err
	}
	_, err := c.mc.PutObject(ctx, c.cfg.Bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return c.PublicURL(key), nil
}

// DeleteObject removes an avatar object.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.mc.RemoveObject(ctx, c.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL builds the client-facing URL for an object key.
func (c *Client) PublicURL(key string) string {
	base := c.cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if c.cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, c.cfg.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", base, c.cfg.Bucket, key)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
