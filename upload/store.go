// Package upload stores user images, either on local disk under the public directory or in a GCS bucket.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store writes an object and returns the URL it is served from.
type Store interface {
	Put(ctx context.Context, object string, r io.Reader, contentType string) (string, error)
}

// LocalStore writes under the public directory, so objects are served by the static handler.
type LocalStore struct {
	root string
}

func NewLocalStore(publicDir string) *LocalStore {
	return &LocalStore{root: publicDir}
}

func (s *LocalStore) Put(ctx context.Context, object string, r io.Reader, _ string) (string, error) {
	object = path.Clean("/" + object)
	full := filepath.Join(s.root, filepath.FromSlash(object))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("image upload failed: unable to create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", object, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", object, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", object, err)
	}

	return object, nil
}

// GCSStore uploads to a public Google Cloud Storage bucket.
type GCSStore struct {
	cl         *storage.Client
	bucketName string
	timeout    time.Duration
}

// NewGCSStore uses the default credentials (GOOGLE_APPLICATION_CREDENTIALS).
func NewGCSStore(ctx context.Context, bucketName string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{cl: client, bucketName: bucketName, timeout: 50 * time.Second}, nil
}

// Put stores the object under a name carrying a random suffix, since GCS objects are overwritten silently.
func (s *GCSStore) Put(ctx context.Context, object string, r io.Reader, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	objectPath := uniqueObjectName(strings.TrimPrefix(object, "/"))

	wc := s.cl.Bucket(s.bucketName).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %w", err)
	}

	return PublicURL(s.bucketName, objectPath), nil
}

func (s *GCSStore) Close() error {
	return s.cl.Close()
}

// PublicURL is the address of a publicly readable GCS object.
func PublicURL(bucketName, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectPath)
}

func uniqueObjectName(object string) string {
	ext := path.Ext(object)
	base := strings.TrimSuffix(object, ext)
	return base + "_" + uuid.NewString()[:8] + ext
}
