package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrObjectNotFound is returned when removing an object that does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore stores binary objects and issues their public URLs.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, name string) error
	PublicURL(name string) string
}

// ObjectNameFromURL returns the last path segment of a public URL, or "" when there is none.
func ObjectNameFromURL(publicURL string) string {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return ""
	}
	if u, err := url.Parse(publicURL); err == nil {
		publicURL = u.Path
	}
	name := path.Base(publicURL)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func validObjectName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}

// LocalStore keeps objects under <root>/<bucket> and serves them from <baseURL>/storage/<bucket>.
type LocalStore struct {
	dir     string
	bucket  string
	baseURL string
}

// NewLocalStore creates the bucket directory if needed.
func NewLocalStore(root, bucket, baseURL string) (*LocalStore, error) {
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory holding the bucket's objects.
func (s *LocalStore) Dir() string { return s.dir }

// RoutePrefix is the URL path objects are served under.
func (s *LocalStore) RoutePrefix() string { return "/storage/" + s.bucket }

func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := validObjectName(name); err != nil {
		return "", err
	}
	tmp := filepath.Join(s.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to commit object: %w", err)
	}
	return s.PublicURL(name), nil
}

func (s *LocalStore) Remove(_ context.Context, name string) error {
	if err := validObjectName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStore) PublicURL(name string) string {
	return s.baseURL + s.RoutePrefix() + "/" + name
}

// MemoryStore is an ObjectStore kept in memory.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string

	// FailRemove makes Remove fail, to exercise best-effort cleanup paths.
	FailRemove bool
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *MemoryStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := validObjectName(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = append([]byte(nil), data...)
	return s.PublicURL(name), nil
}

func (s *MemoryStore) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRemove {
		return errors.New("storage unavailable")
	}
	if _, ok := s.objects[name]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, name)
	return nil
}

func (s *MemoryStore) PublicURL(name string) string {
	return s.baseURL + "/" + name
}

// Has reports whether name is stored.
func (s *MemoryStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
