// Where: deliriumctl/internal/backup/s3.go
// What: S3 upload target for backup archives.
// Why: Off-host copies are the point of a backup; any S3-compatible store
//      (AWS or MinIO-style endpoints) can hold them.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the uploader needs.
type S3API interface {
	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, name string) error
	PutObject(ctx context.Context, bucket, key string, body io.Reader) error
}

// S3Options configures the client. Endpoint switches on path-style
// addressing for MinIO-compatible targets. Empty credentials fall back to
// the SDK's default chain.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

const defaultRegion = "us-east-1"

// NewS3Client builds an S3API from options.
func NewS3Client(ctx context.Context, opts S3Options) (S3API, error) {
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

// Upload ensures the bucket exists and stores the archive under key.
func Upload(ctx context.Context, api S3API, bucket, key, path string) error {
	if api == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	if err := ensureBucket(ctx, api, bucket); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	if err := api.PutObject(ctx, bucket, key, file); err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", path, bucket, key, err)
	}
	return nil
}

func ensureBucket(ctx context.Context, api S3API, bucket string) error {
	names, err := api.ListBuckets(ctx)
	if err == nil {
		for _, name := range names {
			if name == bucket {
				return nil
			}
		}
	}
	if err := api.CreateBucket(ctx, bucket); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) ListBuckets(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Buckets))
	for _, bucket := range resp.Buckets {
		if bucket.Name == nil {
			continue
		}
		names = append(names, *bucket.Name)
	}
	return names, nil
}

func (c awsS3Client) CreateBucket(ctx context.Context, name string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(name)})
	return err
}

func (c awsS3Client) PutObject(ctx context.Context, bucket, key string, body io.Reader) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	return err
}
