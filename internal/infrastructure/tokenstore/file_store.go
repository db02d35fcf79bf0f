// Package tokenstore implements the durable single-token slot. The
// file store survives process restarts and belongs to the local
// profile only.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/storegate/backoffice/internal/core/ports"
)

const credentialsFile = "credentials.json"

// credentials is the on-disk shape. The token is opaque; nothing else
// is persisted client-side.
type credentials struct {
	AccessToken string `json:"access_token"`
}

// FileStore persists the bearer token as a JSON file under a private
// directory (0700 directory, 0600 file).
type FileStore struct {
	path string
}

var _ ports.TokenStore = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir. When dir is empty,
// "<user home>/.backoffice" is used.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tokenstore: resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".backoffice")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("tokenstore: create directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, credentialsFile)}, nil
}

// Set overwrites any existing token.
func (s *FileStore) Set(token string) error {
	data, err := json.MarshalIndent(credentials{AccessToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenstore: marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("tokenstore: write credentials: %w", err)
	}
	return nil
}

// Get returns the stored token, or ok=false when none is held.
func (s *FileStore) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil || creds.AccessToken == "" {
		return "", false
	}
	return creds.AccessToken, true
}

// Clear removes the token. Clearing an empty store is a no-op success.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: remove credentials: %w", err)
	}
	return nil
}
