package driver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"lowc/internal/ast"
	"lowc/internal/project"
	"lowc/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores rendered output keyed by the digest of the input module
// and the options that shaped it. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached compilation result.
type DiskPayload struct {
	Schema  uint16
	Name    string
	Emit    string
	Version string
	Output  []byte
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "ir", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	out := *payload
	out.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(&out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// CacheError is a cache entry that could not be read or written. Compilation
// carries on without the cache and reports it as a warning.
type CacheError struct {
	Op  string // "read" or "write"
	Key project.Digest
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("driver: cache %s %s: %v", e.Op, e.Key.String()[:12], e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Get reads a payload. Entries written under another schema count as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &CacheError{Op: "read", Key: key, Err: err}
	}
	defer f.Close()
	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, &CacheError{Op: "read", Key: key, Err: fmt.Errorf("corrupt entry: %w", err)}
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "ir"))
}

// CacheKey digests the encoded module together with every option that
// changes the output and the tool version.
func CacheKey(m *ast.Module, opts Options) (project.Digest, error) {
	var buf bytes.Buffer
	if err := ast.Encode(&buf, &ast.File{Module: m}, ast.FormatMsgpack); err != nil {
		return project.Digest{}, err
	}
	settings := "fold=" + strconv.FormatBool(opts.Fold) +
		";simplify=" + strconv.FormatBool(opts.Simplify) +
		";emit=" + opts.emit() +
		";version=" + version.Version
	return project.Combine(project.Sum(buf.Bytes()), project.Sum([]byte(settings))), nil
}
