package asset

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/doctorazi/blogdesk/internal/model"
)

// s3API is the subset of the S3 client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Backend stores assets in an S3-compatible bucket (AWS, R2).
type S3Backend struct {
	client s3API
	bucket string
}

func NewS3Backend(ctx context.Context, accessKeyID, accessKeySecret, baseEndpoint, region, bucket string) (*S3Backend, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing S3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Backend{client: client, bucket: bucket}, nil
}

func (b *S3Backend) Upload(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(ObjectKey(authorID, postID, f.Name)),
		Body:        f.Body,
		ContentType: aws.String(f.ContentType),
		Metadata: map[string]string{
			"author-id": string(authorID),
			"post-id":   string(postID),
		},
	}
	if f.Size > 0 {
		input.ContentLength = aws.Int64(f.Size)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", *input.Key, err)
	}
	return f.Name, nil
}

func (b *S3Backend) Delete(ctx context.Context, authorID model.AuthorID, postID model.PostID, filename string) error {
	key := ObjectKey(authorID, postID, filename)
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}
