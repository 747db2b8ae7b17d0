//go:generate mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "Storage=Storage"
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage is the single durable slot holding the raw credential.
// Absence of a value means logged-out.
type Storage interface {
	Load() (string, bool, error)
	Store(token string) error
	Delete() error
}

type fileStorage struct {
	path string
}

// NewFileStorage keeps the credential in a file readable by the owner only.
func NewFileStorage(path string) Storage {
	return fileStorage{path: path}
}

func (s fileStorage) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s fileStorage) Store(token string) error {
	err := os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}

	err = os.WriteFile(s.path, []byte(token), 0o600)
	if err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

func (s fileStorage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

type memoryStorage struct {
	mu    sync.Mutex
	token *string
}

// NewMemoryStorage keeps the credential in process memory only.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return "", false, nil
	}
	return *s.token, true, nil
}

func (s *memoryStorage) Store(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	return nil
}

func (s *memoryStorage) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
