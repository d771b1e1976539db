package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/pkg/storage"
)

const tokenFile = "tokens.json"

// FileStore keeps both tokens as keys of a small JSON document readable only
// by the current user.
type FileStore struct {
	mu    sync.Mutex
	files *storage.LocalStorage
}

// NewFileStore opens (creating if needed) the token directory.
func NewFileStore(dir string) (*FileStore, error) {
	files, err := storage.NewPrivateStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{files: files}, nil
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.files.Path(tokenFile)
}

// Set implements Store. Empty halves are dropped from the document.
func (s *FileStore) Set(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{}
	if pair.AccessToken != "" {
		values[AccessTokenKey] = pair.AccessToken
	}
	if pair.RefreshToken != "" {
		values[RefreshTokenKey] = pair.RefreshToken
	}
	if len(values) == 0 {
		return s.files.Delete(tokenFile)
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if _, err := s.files.Save(tokenFile, raw, storage.Private); err != nil {
		return err
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.files.Read(tokenFile)
	if err != nil || raw == nil {
		return models.TokenPair{}, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return models.TokenPair{}, fmt.Errorf("decode %s: %w", s.files.Path(tokenFile), err)
	}
	return models.TokenPair{
		AccessToken:  values[AccessTokenKey],
		RefreshToken: values[RefreshTokenKey],
	}, nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Delete(tokenFile)
}
