package lint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"hashalign/internal/diag"
	"hashalign/internal/source"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// Cache хранит диагностики файла на диске, с ключом по хэшу содержимого
// и отпечатку конфигурации. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache initializes a disk cache at the standard XDG location.
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

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Cached diagnostics store offsets only; the FileID is reattached when the
// payload is rehydrated into the current FileSet.

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

type cachedFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	Edits         []cachedEdit
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Fixes    []cachedFix
}

type cachePayload struct {
	Schema       uint16
	ConfigDigest string
	Diags        []cachedDiag
}

func (c *Cache) pathFor(f *source.File, cfgDigest string) string {
	h := sha256.New()
	h.Write(f.Hash[:])
	h.Write([]byte(cfgDigest))
	key := hex.EncodeToString(h.Sum(nil))
	// Подкаталог для удобства очистки
	return filepath.Join(c.dir, "files", key+".mp")
}

// Put serializes the bag for a file into the cache.
func (c *Cache) Put(f *source.File, cfgDigest string, bag *diag.Bag) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{
		Schema:       cacheSchemaVersion,
		ConfigDigest: cfgDigest,
	}
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, fx := range d.Fixes {
			cf := cachedFix{
				ID:            fx.ID,
				Title:         fx.Title,
				Kind:          uint8(fx.Kind),
				Applicability: uint8(fx.Applicability),
				IsPreferred:   fx.IsPreferred,
			}
			for _, e := range fx.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{
					Start:   e.Span.Start,
					End:     e.Span.End,
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diags = append(payload.Diags, cd)
	}

	p := c.pathFor(f, cfgDigest)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}

	enc := msgpack.NewEncoder(tmp)
	if err := enc.Encode(&payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	// Атомарная замена
	return os.Rename(tmp.Name(), p)
}

// Get rehydrates cached diagnostics for a file, if present and matching
// the current schema and configuration.
func (c *Cache) Get(f *source.File, cfgDigest string, maxDiags int) (*diag.Bag, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(f, cfgDigest)
	file, err := os.Open(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			// повреждённый кэш игнорируем
			_ = os.Remove(p)
		}
		return nil, false
	}
	defer func() { _ = file.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(file).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion || payload.ConfigDigest != cfgDigest {
		return nil, false
	}

	bag := diag.NewBag(maxDiags)
	for _, cd := range payload.Diags {
		d := diag.New(
			diag.Severity(cd.Severity),
			diag.Code(cd.Code),
			source.Span{File: f.ID, Start: cd.Start, End: cd.End},
			cd.Message,
		)
		for _, cf := range cd.Fixes {
			fx := diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.IsPreferred,
			}
			for _, e := range cf.Edits {
				fx.Edits = append(fx.Edits, diag.TextEdit{
					Span:    source.Span{File: f.ID, Start: e.Start, End: e.End},
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			d = d.WithFix(fx)
		}
		bag.Add(d)
	}
	return bag, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}
