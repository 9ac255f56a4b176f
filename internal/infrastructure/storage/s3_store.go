package storage

import (
	"bytes"
	"context"
	"errors"

	pipelineerrors "chainy-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes blobs to Amazon S3
type S3Store struct {
	client S3API
	logger *zap.Logger
}

// NewS3Store creates a blob store backed by S3
func NewS3Store(client S3API, logger *zap.Logger) *S3Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Store{client: client, logger: logger}
}

// Put writes body to bucket/key
func (s *S3Store) Put(ctx context.Context, container, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(container),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			s.logger.Debug("S3 API error",
				zap.String("bucket", container),
				zap.String("key", key),
				zap.String("code", apiErr.ErrorCode()),
				zap.String("fault", apiErr.ErrorFault().String()),
			)
		}
		return pipelineerrors.NewStorageWriteError(container, key, err)
	}
	return nil
}
