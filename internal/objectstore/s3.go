package objectstore

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/example/spotalert/internal/logging"
)

// S3Client implements Client against a single S3 bucket.
type S3Client struct {
	api    *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Client builds an object store client bound to one bucket.
func NewS3Client(cfg aws.Config, bucket string, logger *zap.Logger) *S3Client {
	return &S3Client{
		api:    s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger.Named("objectstore"),
	}
}

// Put writes the object. Existing keys are overwritten.
func (c *S3Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.api.PutObject(ctx, input); err != nil {
		wrapped := logging.NewOperationError("objectstore.put", "", err)
		c.logger.Error("object upload failed", zap.Error(wrapped), zap.String("key", key))
		return wrapped
	}
	return nil
}
