package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
)

// S3Config describes an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	User      string
	Password  string
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
}

// S3Uploader stores assets as public objects and returns
// PublicURL/bucket/key.
type S3Uploader struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3Uploader(ctx context.Context, c S3Config) (*S3Uploader, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.User,
			c.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{client: client, cfg: c}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, folder string, asset models.Asset) (string, error) {
	if asset.Body == nil {
		return "", ErrEmptyAsset
	}

	key := RandomStorageKey(folder, asset.FileName)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   asset.Body,
	}
	if asset.ContentType != "" {
		in.ContentType = aws.String(asset.ContentType)
	}
	if asset.Size > 0 {
		in.ContentLength = aws.Int64(asset.Size)
	}

	if err := putObject(u.client, ctx, in); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	base := strings.TrimRight(u.cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimRight(u.cfg.Endpoint, "/")
	}
	return base + "/" + u.cfg.Bucket + "/" + key
}
