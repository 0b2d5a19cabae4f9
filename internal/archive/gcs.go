// Package archive stores copies of inbound receipt images in Google Cloud
// Storage for later inspection. Archival never gates the pipeline.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GCSArchive uploads images to a fixed bucket. The client is created once at
// startup and held for the life of the process.
type GCSArchive struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// NewGCSArchive creates an archive over the given bucket using Application
// Default Credentials.
func NewGCSArchive(ctx context.Context, bucket string, log zerolog.Logger) (*GCSArchive, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive: missing bucket name")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive: create storage client: %w", err)
	}

	return &GCSArchive{
		client: client,
		bucket: bucket,
		log:    log,
	}, nil
}

// Store uploads the image under a date-partitioned object name and returns
// the gs:// URI of the stored copy.
func (a *GCSArchive) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	objectName := objectName(time.Now(), mimeType)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = mimeType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("archive: copy image to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("archive: finalize upload: %w", err)
	}

	uri := fmt.Sprintf("gs://%s/%s", a.bucket, objectName)
	a.log.Debug().Str("uri", uri).Int("bytes", len(data)).Msg("Receipt image archived")
	return uri, nil
}

// Close releases the underlying storage client.
func (a *GCSArchive) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}

func objectName(now time.Time, mimeType string) string {
	return fmt.Sprintf("receipts/%s/%s%s", now.Format("2006/01/02"), uuid.NewString(), extensionFor(mimeType))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
