package script

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Digest identifies one (script, source, options) combination.
type Digest [sha256.Size]byte

// RenderKey hashes everything that affects the rendered bytes: the script,
// the source and every render option.
func RenderKey(script, source []byte, color, indentAll bool) Digest {
	h := sha256.New()
	h.Write(script)
	h.Write([]byte{0})
	h.Write(source)
	var opts byte
	if color {
		opts |= 1
	}
	if indentAll {
		opts |= 2
	}
	h.Write([]byte{opts})
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Cache хранит отрендеренные отчёты на диске, ключ — Digest.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema   uint16
	Rendered string
}

// OpenCache initializes and returns a disk cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	// Подкаталог "reports" — для удобства читаемости/очистки.
	return filepath.Join(c.dir, "reports", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a rendered report to the disk cache.
func (c *Cache) Put(key Digest, rendered string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(&cachePayload{
		Schema:   cacheSchemaVersion,
		Rendered: rendered,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get returns the cached rendered report for key, if present and readable
// with the current schema. Any decode or schema mismatch counts as a miss.
func (c *Cache) Get(key Digest) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// отсутствие или повреждение файла — просто промах
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return "", false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return "", false
	}
	if payload.Schema != cacheSchemaVersion {
		return "", false
	}
	return payload.Rendered, true
}
