package cache

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileCache stores one file per entry under dir/<kind>/<xx>/<hash>, where
// kind is the key's prefix (see [KindArtifact]). A file holds the expiry
// as Unix nanoseconds (0 for none) on its first line, then the raw data.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	header, data, ok := bytes.Cut(raw, []byte{'\n'})
	expires, perr := strconv.ParseInt(string(header), 10, 64)
	if !ok || perr != nil || (expires > 0 && c.now().UnixNano() > expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(tmp)
	w.WriteString(strconv.FormatInt(expires, 10))
	w.WriteByte('\n')
	w.Write(data)
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes the entries of the given kinds, or every entry when none
// are given, and reports how many were removed.
func (c *FileCache) Clear(kinds ...string) (int, error) {
	if len(kinds) == 0 {
		entries, err := os.ReadDir(c.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return 0, err
		}
		for _, e := range entries {
			if e.IsDir() {
				kinds = append(kinds, e.Name())
			}
		}
	}

	removed := 0
	for _, kind := range kinds {
		root := filepath.Join(c.dir, kind)
		err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && !strings.HasPrefix(d.Name(), ".tmp-") {
				removed++
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		if err := os.RemoveAll(root); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	kind, _, ok := strings.Cut(key, ":")
	if !ok || kind == "" || strings.ContainsAny(kind, `/\.`) {
		kind = "misc"
	}
	h := Hash([]byte(key))
	return filepath.Join(c.dir, kind, h[:2], h[2:])
}

var _ Cache = (*FileCache)(nil)
