package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HTTPEntry captures enough metadata to revalidate an article with
// If-None-Match / If-Modified-Since.
type HTTPEntry struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	SavedAt      time.Time `json:"saved_at"`
}

// HTTPCache stores responses on disk as <key>.meta.json and <key>.body where
// key is sha256(url). Eviction is age based, see PurgeHTTPCacheByAge.
type HTTPCache struct {
	Dir string
	// StrictPerms restricts the directory to 0700 and files to 0600.
	StrictPerms bool
}

func (c *HTTPCache) dirMode() os.FileMode {
	if c.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (c *HTTPCache) fileMode() os.FileMode {
	if c.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (c *HTTPCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	if err := os.MkdirAll(c.Dir, c.dirMode()); err != nil {
		return err
	}
	if c.StrictPerms {
		// MkdirAll is subject to umask and leaves existing dirs untouched.
		return os.Chmod(c.Dir, c.dirMode())
	}
	return nil
}

func (c *HTTPCache) key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *HTTPCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *HTTPCache) bodyPath(key string) string { return filepath.Join(c.Dir, key+".body") }

// LoadMeta returns entry metadata if present.
func (c *HTTPCache) LoadMeta(_ context.Context, url string) (*HTTPEntry, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.metaPath(c.key(url)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var e HTTPEntry
	if err := json.NewDecoder(f).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadBody returns cached body if present.
func (c *HTTPCache) LoadBody(_ context.Context, url string) ([]byte, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	return os.ReadFile(c.bodyPath(c.key(url)))
}

// Save stores a new cache entry. The body is written before the metadata so a
// reader never sees metadata without a body from the same save.
func (c *HTTPCache) Save(_ context.Context, url string, contentType string, etag string, lastModified string, body []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	key := c.key(url)
	if err := writeFileAtomic(c.bodyPath(key), body, c.fileMode()); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta := HTTPEntry{
		URL:          url,
		ContentType:  contentType,
		ETag:         etag,
		LastModified: lastModified,
		SavedAt:      time.Now().UTC(),
	}
	b, err := json.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := writeFileAtomic(c.metaPath(key), b, c.fileMode()); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// into place so concurrent requests for the same article never read a torn file.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
