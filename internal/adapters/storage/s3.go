package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"motoauto-service/internal/config"
	"motoauto-service/internal/domain/shared"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog"
)

// S3BlobStore uploads listing images to an S3-compatible bucket with public-read access
type S3BlobStore struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

type S3BlobStoreParams struct {
	Config config.StorageConfig
	// Client overrides the client built from Config
	Client s3iface.S3API
	Logger zerolog.Logger
}

// NewS3BlobStore creates a blob store for the configured bucket
func NewS3BlobStore(params S3BlobStoreParams) (*S3BlobStore, error) {
	cfg := params.Config
	client := params.Client
	if client == nil {
		awsCfg := &aws.Config{
			Region:           aws.String(cfg.Region),
			S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
		}
		if cfg.Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.Endpoint)
		}
		if cfg.AccessKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage session: %w", err)
		}
		client = s3.New(sess)
	}

	return &S3BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: PublicURL(cfg),
		logger:    params.Logger.With().Str("component", "s3_blob_store").Logger(),
	}, nil
}

// PublicURL returns the URL prefix objects of cfg.Bucket are served from
func PublicURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Put uploads body under key and returns its public URL
func (store *S3BlobStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	seeker, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrBlobUpload, err)
		}
		seeker = bytes.NewReader(data)
		size = int64(len(data))
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := store.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          seeker,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		store.logger.Error().Err(err).Str("key", key).Msg("Upload failed")
		return "", fmt.Errorf("%w: %v", shared.ErrBlobUpload, err)
	}

	store.logger.Debug().Str("key", key).Int64("size", size).Msg("Object uploaded")
	return store.publicURL + "/" + key, nil
}
