package asset

import (
	"context"
	"fmt"

	"github.com/doctorazi/blogdesk/internal/config"
)

// NewBackend builds the backend selected by cfg.Assets.Driver.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	a := cfg.Assets
	switch a.Driver {
	case "rest":
		return NewRESTBackend(cfg.Backend.BaseURL, cfg.Backend.SessionCookie, cfg.Backend.Timeout), nil
	case "s3":
		return NewS3Backend(ctx, cfg.Secrets.S3AccessKeyID, cfg.Secrets.S3SecretAccessKey, a.Endpoint, a.Region, a.Bucket)
	case "minio":
		return NewMinIOBackend(a.Endpoint, cfg.Secrets.MinIOAccessKey, cfg.Secrets.MinIOSecretKey, a.Bucket, a.UseSSL)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown asset driver %q", a.Driver)
	}
}
