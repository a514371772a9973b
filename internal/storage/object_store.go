package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/config"
)

// ObjectStore is the external blob-store boundary. Put is idempotent under
// retried identical paths and returns a retrievable public URL.
type ObjectStore interface {
	Put(ctx context.Context, path string, content []byte, contentType string) (string, error)
}

// ObjectPath builds the upload path for an attachment: a date prefix plus a
// short random component so identical file names never collide.
func ObjectPath(name string, now time.Time) string {
	rand := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%s-%s", now.UTC().Format("2006-01-02"), rand, url.PathEscape(name))
}

// HTTPStore talks to a blob endpoint that accepts PUT <endpoint>/<bucket>/<path>
// with upsert semantics and serves the object back under the public base URL.
type HTTPStore struct {
	endpoint      string
	publicBaseURL string
	bucket        string
	client        *http.Client
	logger        *zap.Logger
}

// NewHTTPStore builds a store client with a bounded call timeout.
func NewHTTPStore(cfg config.StorageConfig, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		bucket:        cfg.Bucket,
		client:        &http.Client{Timeout: cfg.Timeout()},
		logger:        logger,
	}
}

// Put uploads content and returns its public URL.
func (s *HTTPStore) Put(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("object store endpoint not configured")
	}
	target := fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("object store returned %d for %s", resp.StatusCode, path)
	}

	s.logger.Debug("object stored", zap.String("path", path), zap.Int("bytes", len(content)))
	return s.PublicURL(path), nil
}

// PublicURL returns the retrievable URL for an object path.
func (s *HTTPStore) PublicURL(path string) string {
	base := s.publicBaseURL
	if base == "" {
		base = s.endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, s.bucket, path)
}
