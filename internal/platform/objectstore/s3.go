// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxDeleteBatch is the DeleteObjects per-request key limit.
const maxDeleteBatch = 1000

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for R2 or MinIO; empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
}

// S3Store implements [Store] on an S3-compatible bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store builds the S3 client from cfg. Static credentials are used when
// both key parts are set; otherwise the default AWS credential chain applies.
func NewS3Store(context context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("objectstore: bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context, options...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  cfg.PublicBaseURL,
	}, nil
}

func (store *S3Store) Put(context context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := store.uploader.Upload(context, input); err != nil {
		return fmt.Errorf("objectstore: upload %q: %w", key, err)
	}
	return nil
}

func (store *S3Store) Delete(context context.Context, keys []string) ([]string, error) {
	var failed []string
	for start := 0; start < len(keys); start += maxDeleteBatch {
		batch := keys[start:min(start+maxDeleteBatch, len(keys))]

		objects := make([]types.ObjectIdentifier, len(batch))
		for i, key := range batch {
			objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}

		output, err := store.client.DeleteObjects(context, &s3.DeleteObjectsInput{
			Bucket: aws.String(store.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return append(failed, keys[start:]...), fmt.Errorf("objectstore: delete objects: %w", err)
		}
		for _, deleteError := range output.Errors {
			failed = append(failed, aws.ToString(deleteError.Key))
		}
	}
	return failed, nil
}

func (store *S3Store) URL(key string) string {
	return joinURL(store.baseURL, key)
}

func (store *S3Store) Ping(context context.Context) error {
	_, err := store.client.HeadBucket(context, &s3.HeadBucketInput{Bucket: aws.String(store.bucket)})
	if err != nil {
		return fmt.Errorf("objectstore: head bucket: %w", err)
	}
	return nil
}

var _ Store = (*S3Store)(nil)
