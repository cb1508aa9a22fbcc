package favsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/panpal/panpal/pkg/logger"
)

// Cache persists the favorite-ID list between sessions.
//
// Load must fail soft: a missing or malformed snapshot degrades to an
// empty list, never an error. Save is synchronous relative to the state
// transition that triggered it; implementations must not batch writes,
// since cross-process consistency depends on every mutation being
// flushed immediately.
type Cache interface {
	Load() []uint
	Save(ids []uint) error
}

// DefaultCachePath returns the per-user location of the favorites snapshot.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "panpal", "favorites.json")
}

// FileCache stores the favorite-ID list as a JSON array in a single file.
type FileCache struct {
	mu   sync.Mutex
	path string
}

// NewFileCache creates a file-backed cache at path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads the snapshot. Missing file or unparseable content yields
// an empty list.
func (c *FileCache) Load() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Logger.Warn().Err(err).Str("path", c.path).Msg("Failed to read favorites cache")
		}
		return nil
	}

	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Logger.Warn().Err(err).Str("path", c.path).Msg("Discarding malformed favorites cache")
		return nil
	}
	return ids
}

// Save writes the snapshot, creating parent directories as needed.
func (c *FileCache) Save(ids []uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ids == nil {
		ids = []uint{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write favorites cache: %w", err)
	}
	return nil
}
