package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/errs"
)

const maxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ObjectStorage is the subset of the S3 client the image store uses.
type ObjectStorage interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps recipe images in an S3 bucket under recipes/images/.
type S3ImageStore struct {
	client    ObjectStorage
	bucket    string
	publicURL string
	log       *zap.Logger
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(client ObjectStorage, bucket, publicURL string, log *zap.Logger) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// NewImageStoreFromConfig wires the store to the configured bucket.
func NewImageStoreFromConfig(s3Config *config.S3Config, log *zap.Logger) *S3ImageStore {
	return NewS3ImageStore(s3Config.Client, s3Config.BucketName, s3Config.PublicURL, log)
}

func (s *S3ImageStore) Save(ctx context.Context, dataURL string) (string, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s%s.%s", config.ImagePrefix, uuid.NewString(), imageExtensions[contentType])
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	s.log.Debug("uploaded recipe image", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

func (s *S3ImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/" + key
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

// DecodeDataURL parses data:<mime>;base64,<payload>. Invalid input is a
// validation error on the image field.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, errs.Validation("image", "expected a base64 data URL")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, ok := imageExtensions[contentType]; !ok {
		return "", nil, errs.Validation("image", fmt.Sprintf("unsupported image type %q", contentType))
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return "", nil, errs.Validation("image", "image is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, errs.Validation("image", "image is not valid base64")
	}
	return contentType, data, nil
}
