// Package aws defines functions used to interact with the AWS API
package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/kejiahp/QRcode-event-manager/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// S3API is the subset of *s3.Client used by S3Client
type S3API interface {
	manager.UploadAPIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Client stores public images in a bucket. Objects are served from
// PublicURL, which is either the bucket's website endpoint or a CDN in front
// of it
type S3Client struct {
	C         S3API
	Bucket    *string
	PublicURL string
	Folder    string

	uploader *manager.Uploader
}

func NewS3(ctx context.Context, c config.StorageConfig) (*S3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = c.Region
	})

	return Wrap(ctx, client, c)
}

// Wrap builds an S3Client around an already configured API client and checks
// that the bucket exists
func Wrap(ctx context.Context, client S3API, c config.StorageConfig) (*S3Client, error) {
	bucket := aws.String(c.Bucket)

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", c.Bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:         client,
		Bucket:    bucket,
		PublicURL: c.PublicURL,
		Folder:    c.Folder,
		uploader:  manager.NewUploader(client),
	}, nil
}

// Upload stores data under name inside the configured folder and returns
// the public URL of the object together with its key, which is needed to
// delete it later
func (s *S3Client) Upload(ctx context.Context, name string, data []byte) (url, key string, err error) {
	key = path.Join(s.Folder, name)
	mime := mimetype.Detect(data)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mime.String()),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s to S3, %w", key, err)
	}

	zap.L().Debug("Object uploaded", zap.String("key", key), zap.String("mime", mime.String()))

	return s.PublicURL + "/" + key, key, nil
}

// Delete removes the object stored under key
func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3, %w", key, err)
	}

	zap.L().Debug("Deleted item", zap.String("item", key))
	return nil
}
