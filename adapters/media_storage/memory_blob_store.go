package media_storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

// MemoryBlobStore is used when Cloudinary is not configured.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string][]byte
	writes  int
}

var _ service.BlobStore = (*MemoryBlobStore)(nil)

func NewMemoryBlobStore(baseURL string) *MemoryBlobStore {
	if baseURL == "" {
		baseURL = "memory://"
	}
	return &MemoryBlobStore{baseURL: baseURL, blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Upload(_ context.Context, path string, file io.Reader) (string, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return "", apperror.NewInternal("failed to read blob content", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.blobs[path] = content
	return s.URL(path), nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	delete(s.blobs, path)
	return nil
}

func (s *MemoryBlobStore) URL(path string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/" + path
}

func (s *MemoryBlobStore) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[path]
	return ok
}

// Writes counts Upload and Delete calls.
func (s *MemoryBlobStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Content returns a copy of the stored bytes, or nil when absent.
func (s *MemoryBlobStore) Content(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), b...)
}
