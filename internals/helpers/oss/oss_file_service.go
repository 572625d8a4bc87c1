package helper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

/*
BlobService adalah facade simpan/hapus file yang seragam untuk service dokumen.
Key disimpan di DB, URL publik diturunkan dari key.
*/
type BlobService interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS (OSSService)
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := b.svc.PutObject(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return b.svc.PublicURL(key), nil
}

func (b *OSSBlobService) Delete(ctx context.Context, key string) error {
	return b.svc.DeleteObject(ctx, key)
}

// --------------------------------------------------
// Disk lokal (dev tanpa OSS). File disajikan di /uploads.
// --------------------------------------------------

type LocalBlobService struct {
	Dir     string
	BaseURL string
}

func NewLocalBlobService(dir, baseURL string) *LocalBlobService {
	return &LocalBlobService{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalBlobService) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("key tidak valid: %s", key)
	}
	return filepath.Join(l.Dir, clean), nil
}

func (l *LocalBlobService) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/uploads/" + strings.TrimLeft(key, "/"), nil
}

func (l *LocalBlobService) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// --------------------------------------------------
// In-memory (test)
// --------------------------------------------------

type MemoryBlobService struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	Deleted []string
}

func NewMemoryBlobService() *MemoryBlobService {
	return &MemoryBlobService{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryBlobService) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), data...)
	m.Types[key] = contentType
	return "memory://" + key, nil
}

func (m *MemoryBlobService) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryBlobService) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

func (m *MemoryBlobService) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Types[key]
}
