package countrybed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cache keys and their file suffixes.
const (
	KeyCountries  = "countries"
	KeyFlags      = "flags"
	KeyLastSynced = "last-synced"

	SuffixJSON = ".json"
	SuffixText = ".txt"
)

// CacheStore persists JSON blobs and text markers as files in one
// directory. Writes replace the target atomically: readers see either
// the previous content or the new content, never a truncated file.
type CacheStore struct {
	dir string
}

// NewCacheStore creates the cache directory if needed.
func NewCacheStore(cfg *Config) (*CacheStore, error) {
	dir := filepath.Clean(cfg.CacheDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &CacheStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *CacheStore) Dir() string {
	return s.dir
}

func (s *CacheStore) path(key, suffix string) string {
	return filepath.Join(s.dir, key+suffix)
}

// Exists reports whether key+suffix is present.
func (s *CacheStore) Exists(key, suffix string) bool {
	fi, err := os.Stat(s.path(key, suffix))
	return err == nil && fi.Mode().IsRegular()
}

// ReadJSON decodes the entry for key into v. found is false, with a nil
// error, when the entry does not exist. Content that is not valid JSON
// for v yields a *CorruptCacheError.
func (s *CacheStore) ReadJSON(key string, v any) (found bool, err error) {
	b, found, err := s.read(key, SuffixJSON)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, &CorruptCacheError{Key: key, Err: err}
	}
	return true, nil
}

// ReadText returns the text entry for key. found is false when absent.
func (s *CacheStore) ReadText(key string) (text string, found bool, err error) {
	b, found, err := s.read(key, SuffixText)
	if err != nil || !found {
		return "", found, err
	}
	return string(b), true, nil
}

func (s *CacheStore) read(key, suffix string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key, suffix))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return b, true, nil
}

// SaveJSON encodes v and replaces the entry for key.
func (s *CacheStore) SaveJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	return s.write(key, SuffixJSON, b)
}

// SaveText replaces the text entry for key.
func (s *CacheStore) SaveText(key, value string) error {
	return s.write(key, SuffixText, []byte(value))
}

// Remove deletes key+suffix. Removing an absent entry is not an error.
func (s *CacheStore) Remove(key, suffix string) error {
	if err := os.Remove(s.path(key, suffix)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache entry %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry the synchronizer writes.
func (s *CacheStore) Clear() error {
	// Timestamp first so an interrupted clear reads as stale.
	if err := s.Remove(KeyLastSynced, SuffixText); err != nil {
		return err
	}
	if err := s.Remove(KeyCountries, SuffixJSON); err != nil {
		return err
	}
	return s.Remove(KeyFlags, SuffixJSON)
}

// write stages b in a temp file next to the target, syncs it and
// renames it into place.
func (s *CacheStore) write(key, suffix string, b []byte) error {
	target := s.path(key, suffix)
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}

	// Remove the temp file on any failure below.
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing cache entry %s: %w", key, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("chmod cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replacing cache entry %s: %w", key, err)
	}
	success = true
	return nil
}
