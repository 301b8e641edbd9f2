package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 uploads to a public-read bucket.
type S3 struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

// NewS3 builds an S3 store. Empty keys fall back to the default AWS
// credential chain.
func NewS3(ctx context.Context, bucket, region, accessKey, secretKey string) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3{uploader: manager.NewUploader(s3.NewFromConfig(cfg)), bucket: bucket, region: region}, nil
}

func (s *S3) Save(ctx context.Context, folder, contentType string, r io.Reader) (string, error) {
	if err := ValidateImage(contentType, 0); err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(body) > MaxImageSize {
		return "", ErrTooLarge
	}

	key := objectName(folder, contentType)
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(normalizeType(contentType)),
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}

	if out.Location != "" {
		return out.Location, nil
	}
	return publicObjectURL(s.bucket, s.region, key), nil
}

func publicObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
