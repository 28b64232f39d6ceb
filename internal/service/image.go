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

	"github.com/foodshare/backend/config"
)

// ImageService stores recipe images in S3. The core only keeps the
// resulting reference URL; when S3 is not configured, payloads pass
// through untouched.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ResolveImage turns a recipe image payload into a stored reference URL.
// Payloads are either already a URL, which is stored as-is, or a data URI
// ("data:image/png;base64,....") that gets decoded and uploaded.
func (s *ImageService) ResolveImage(ctx context.Context, payload string) (string, error) {
	if payload == "" || !strings.HasPrefix(payload, "data:") {
		return payload, nil
	}
	if s.s3Config == nil || s.s3Config.Client == nil {
		return "", fmt.Errorf("image upload requires S3 storage to be configured")
	}

	header, encoded, found := strings.Cut(payload, ",")
	if !found {
		return "", fmt.Errorf("malformed image data URI")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.upload(ctx, data, fileName, contentType)
}

func (s *ImageService) upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName), nil
}
