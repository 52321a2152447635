package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"guild_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// FileStorage persists each envelope as one JSON document per key inside a
// data directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a file-backed storage rooted at dir, creating the
// directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dir, err)
	}
	return &FileStorage{dir: dir}, nil
}

// Get reads the envelope stored under key, or (nil, nil) if absent
func (fs *FileStorage) Get(ctx context.Context, key string) (*app.GuildWarData, error) {
	raw, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	var data app.GuildWarData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", key, err)
	}
	return &data, nil
}

// Set writes the envelope under key. The write goes through a temp file and
// a rename so a crash never leaves a half-written document behind.
func (fs *FileStorage) Set(ctx context.Context, key string, data *app.GuildWarData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	target := fs.path(key)
	tmp, err := os.CreateTemp(fs.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %q: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %q: %w", key, err)
	}

	log.Debug().
		Str("key", key).
		Int("bytes", len(raw)).
		Msg("Wrote envelope to file storage")

	return nil
}

// Delete removes the envelope stored under key. Deleting an absent key is
// not an error.
func (fs *FileStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (fs *FileStorage) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}
