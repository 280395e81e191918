package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrInvalidDataURI     = errors.New("invalid base64 data uri")
	ErrContentTypeDenied  = errors.New("content type is not allowed")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type (
	AwsS3 interface {
		// UploadBase64 stores a data URI under folder/ and returns the object key.
		UploadBase64(ctx context.Context, name string, dataURI string, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		ObjectKeyFromURL(url string) (string, bool)
	}

	awsS3 struct {
		client    *s3.Client
		bucket    string
		publicURL string
	}
)

func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	endpoint := utils.GetConfig("AWS_S3_ENDPOINT")

	publicURL := strings.TrimRight(utils.GetConfig("AWS_S3_PUBLIC_URL"), "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	s := &awsS3{bucket: bucket, publicURL: publicURL}
	if bucket == "" {
		logging.Warn().Msg("AWS_S3_BUCKET is empty, image uploads are disabled")
		return s
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if ak, sk := utils.GetConfig("AWS_ACCESS_KEY"), utils.GetConfig("AWS_SECRET_KEY"); ak != "" && sk != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		logging.Error().Err(err).Msg("unable to load AWS config for S3")
		return s
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return s
}

// DecodeDataURI splits "data:<mime>;base64,<payload>" into its content type
// and decoded bytes.
func DecodeDataURI(dataURI string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidDataURI
	}

	contentType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64"))
	if contentType == "image/jpg" {
		contentType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, ErrInvalidDataURI
	}
	return contentType, data, nil
}

func (s *awsS3) UploadBase64(ctx context.Context, name string, dataURI string, folder string, allowed ...string) (string, error) {
	contentType, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if len(allowed) > 0 && !contains(allowed, contentType) {
		return "", fmt.Errorf("%w: %s", ErrContentTypeDenied, contentType)
	}
	if s.client == nil {
		return "", ErrStorageUnavailable
	}

	key := fmt.Sprintf("%s/%s-%s%s", folder, name, uuid.NewString(), extensions[contentType])
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if s.client == nil {
		return ErrStorageUnavailable
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return s.publicURL + "/" + objectKey
}

func (s *awsS3) ObjectKeyFromURL(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
