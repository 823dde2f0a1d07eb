package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Akhalfstar/Realeaste-bakend/config"
	"github.com/Akhalfstar/Realeaste-bakend/models"
)

// ImageStore keeps property images in an S3-compatible bucket. The object
// key doubles as the image's public_id on the property record.
type ImageStore struct {
	client *s3.Client
	cfg    config.S3Config
}

func NewImageStore(ctx context.Context, cfg config.S3Config) (*ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &ImageStore{client: client, cfg: cfg}, nil
}

// Upload stores the file at localPath under a fresh key and returns the
// reference to embed in the property record.
func (s *ImageStore) Upload(ctx context.Context, localPath string) (models.ImageRef, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := "properties/" + uuid.NewString() + ext

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("put object: %w", err)
	}

	return models.ImageRef{PublicID: key, URL: s.publicURL(key)}, nil
}

// Delete removes the object behind a public_id.
func (s *ImageStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *ImageStore) publicURL(key string) string {
	if s.cfg.Endpoint != "" {
		host := strings.TrimPrefix(s.cfg.Endpoint, "https://")
		return fmt.Sprintf("https://%s/%s/%s", host, s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
