// Package storage keeps uploaded files (shop logos and their thumbnails)
// on local disk or in a Google Cloud Storage bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Storage writes an object and returns the URL it can be fetched from.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a backend.
type Config struct {
	Provider        string // "local" or "gcs"
	LocalPath       string
	PublicBaseURL   string
	Bucket          string
	CredentialsJSON string
}

// New builds the backend named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Provider {
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket, cfg.CredentialsJSON, cfg.PublicBaseURL)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("storage: unknown provider %q (use local or gcs)", cfg.Provider)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + key)[1:]
	if k == "" || strings.HasPrefix(k, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return k, nil
}

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage stores files under root and serves them from baseURL.
func NewLocalStorage(root, baseURL string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: local path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &localStorage{root: root, baseURL: baseURL}, nil
}

func (s *localStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.root, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", k, err)
	}
	return joinURL(s.baseURL, k), nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(k)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type gcsStorage struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCSStorage stores files in bucket. Without credentialsJSON the client
// uses application default credentials.
func NewGCSStorage(ctx context.Context, bucket, credentialsJSON, baseURL string) (Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: GCS bucket is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs client: %w", err)
	}

	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucket
	}
	return &gcsStorage{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *gcsStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	w := s.client.Bucket(s.bucket).Object(k).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: upload %s: %w", k, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", k, err)
	}
	return joinURL(s.baseURL, k), nil
}

func (s *gcsStorage) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(k).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}
