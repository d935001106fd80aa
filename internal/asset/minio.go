package asset

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
)

type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinIOBackend struct {
	client minioAPI
	bucket string
}

func NewMinIOBackend(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOBackend, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing MinIO client: %w", err)
	}
	return &MinIOBackend{client: client, bucket: bucket}, nil
}

func (b *MinIOBackend) Upload(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error) {
	size := f.Size
	if size <= 0 {
		size = -1
	}

	key := ObjectKey(authorID, postID, f.Name)
	_, err := b.client.PutObject(ctx, b.bucket, key, f.Body, size, minio.PutObjectOptions{
		ContentType: f.ContentType,
		UserMetadata: map[string]string{
			"original-filename": f.Name,
			"post-id":           string(postID),
			"uploaded-at":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return f.Name, nil
}

func (b *MinIOBackend) Delete(ctx context.Context, authorID model.AuthorID, postID model.PostID, filename string) error {
	key := ObjectKey(authorID, postID, filename)
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s: %w", key, err)
	}
	return nil
}
