// Package storage provides the asset-storage adapter backing business logos,
// covers and gallery images. The core only needs removal; uploads are served
// by the CDN-facing pipeline outside this process.
package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileStorage removes assets from a local directory tree. Keys are the
// relative paths recorded on the business document.
type FileStorage struct {
	baseDir string
	log     zerolog.Logger
}

func NewFileStorage(baseDir string, log zerolog.Logger) *FileStorage {
	return &FileStorage{baseDir: baseDir, log: log}
}

// Remove deletes the asset for key. A missing file counts as success so that
// a retried cascade stays idempotent.
func (s *FileStorage) Remove(_ context.Context, key string) error {
	clean := filepath.Clean("/" + key)
	path := filepath.Join(s.baseDir, clean)
	if !strings.HasPrefix(path, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return errors.New("storage: key escapes base directory")
	}

	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Debug().Str("key", key).Msg("asset removed")
	return nil
}
