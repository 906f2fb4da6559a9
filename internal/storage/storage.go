package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pareto_backend/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Storage is bucketed object storage. Buckets are either public (GetURL works
// without signing) or private (only GetSignedURL gives access).
type Storage interface {
	Save(ctx context.Context, bucket, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, key string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// GetURL returns the public URL of an object in a public bucket
	GetURL(ctx context.Context, bucket, key string) (string, error)

	// GetSignedURL returns a time-limited URL for any object
	GetSignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	GetSize(ctx context.Context, bucket, key string) (int64, error)

	// CreateBucket provisions a bucket; creating an existing bucket is not an error
	CreateBucket(ctx context.Context, name string, public bool) error
}

// Config holds storage configuration
type Config struct {
	Type           string // local, s3, cloudflare_r2
	BasePath       string // local storage root
	BaseURL        string // URL prefix the local file handler is mounted on
	SigningKey     string // HMAC key for local signed URLs
	Region         string
	AccessKey      string
	SecretKey      string
	Endpoint       string // R2 or any S3 compatible endpoint
	PublicBaseURL  string // public host for public buckets
	ForcePathStyle bool
}

// ConfigFrom maps the storage section of the app config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Type:           cfg.Storage.Type,
		BasePath:       cfg.Storage.BasePath,
		BaseURL:        cfg.Storage.BaseURL,
		SigningKey:     cfg.JWT.Secret,
		Region:         cfg.Storage.Region,
		AccessKey:      cfg.Storage.AccessKey,
		SecretKey:      cfg.Storage.SecretKey,
		Endpoint:       cfg.Storage.Endpoint,
		PublicBaseURL:  cfg.Storage.PublicBaseURL,
		ForcePathStyle: cfg.Storage.ForcePathStyle,
	}
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
