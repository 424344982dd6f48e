// Package cloudflare provides a client for Cloudflare R2, which speaks the
// S3 API
package cloudflare

import (
	"context"
	"fmt"

	a "github.com/kejiahp/QRcode-event-manager/aws"
	"github.com/kejiahp/QRcode-event-manager/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func NewR2(ctx context.Context, c config.StorageConfig) (*a.S3Client, error) {
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
		o.BaseEndpoint = aws.String(Endpoint(c.AccountID))
		o.Region = "auto"
	})

	return a.Wrap(ctx, client, c)
}

// Endpoint returns the S3 compatible endpoint of an R2 account
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}
