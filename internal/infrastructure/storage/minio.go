package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
)

const presignExpiry = 24 * time.Hour

// MinIOClient stores synthesized voice responses
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL for generating accessible URLs (e.g., https://cdn.example.com)
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	// Initialize MinIO client
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}

	// Initialize bucket with public read policy
	if err := client.ensureBucketWithPolicy(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucketWithPolicy ensures bucket exists and has public read policy
func (m *MinIOClient) ensureBucketWithPolicy(ctx context.Context) error {
	// Check if bucket exists
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	// Create bucket if it doesn't exist
	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	// Telephony providers fetch the audio anonymously
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// PutAudio uploads an audio clip and returns its URL
func (m *MinIOClient) PutAudio(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", apperrors.ErrStorageFailed("put audio", err)
	}
	return m.ObjectURL(ctx, objectName)
}

// Lookup returns the URL of an already stored clip
func (m *MinIOClient) Lookup(ctx context.Context, objectName string) (string, bool) {
	if _, err := m.client.StatObject(ctx, m.bucket, objectName, minio.StatObjectOptions{}); err != nil {
		return "", false
	}
	u, err := m.ObjectURL(ctx, objectName)
	if err != nil {
		return "", false
	}
	return u, true
}

// ObjectURL returns a public URL when one is configured, otherwise a
// presigned URL
func (m *MinIOClient) ObjectURL(ctx context.Context, objectName string) (string, error) {
	if m.publicURL != "" {
		return PublicObjectURL(m.publicURL, m.bucket, objectName), nil
	}

	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

// PublicObjectURL builds scheme://host/bucket/object behind a reverse proxy
func PublicObjectURL(publicURL, bucket, objectName string) string {
	return strings.TrimRight(publicURL, "/") + "/" + bucket + "/" + strings.TrimLeft(objectName, "/")
}
