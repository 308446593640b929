package crypto

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fileSecretStore keeps secrets as individual 0600 files inside a private
// directory. It stands in for a platform keychain on headless deployments;
// the protection boundary is file-system permissions.
type fileSecretStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSecretStore constructs a [SecretStore] rooted at dir. The
// directory is created with 0700 permissions if it does not exist.
func NewFileSecretStore(dir string) (SecretStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create secret dir: %w", err)
	}
	return &fileSecretStore{dir: dir}, nil
}

func (s *fileSecretStore) GetSecret(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileSecretStore) SetSecret(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(name), []byte(value), 0o600); err != nil {
		return fmt.Errorf("write secret %s: %w", name, err)
	}
	return nil
}

func (s *fileSecretStore) path(name string) string {
	// Secret names are fixed identifiers, but keep them path-safe anyway.
	return filepath.Join(s.dir, filepath.Base(name))
}
