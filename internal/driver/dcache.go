package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/source"
)

// Bump when the Payload layout changes; stale entries are ignored.
const cacheSchemaVersion uint16 = 1

// Digest keys one cache entry: content hash mixed with the analysis
// configuration, so a config change invalidates every entry.
type Digest [32]byte

func cacheKey(file *source.File, cfg config.Config) Digest {
	h := sha256.New()
	h.Write(file.Hash[:])

	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], cacheSchemaVersion)
	h.Write(buf[:2])
	flags := byte(0)
	if cfg.BlockScoping {
		flags |= 1
	}
	if cfg.WarningsAsErrors {
		flags |= 2
	}
	h.Write([]byte{flags, byte(cfg.CatchScoping)})
	binary.LittleEndian.PutUint64(buf[:], uint64(cfg.MaxDiagnostics))
	h.Write(buf[:])

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CachedDiagnostic is one diagnostic flattened for serialization.
// Spans stay as file-relative offsets; they are only valid against the
// identical file content the digest guarantees.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// CachedSymbol is the summary the `symbols` command can serve without
// re-analysis.
type CachedSymbol struct {
	Name string
	Kind uint8
}

// Payload is the unit of disk-cache storage.
type Payload struct {
	Schema      uint16
	Diagnostics []CachedDiagnostic
	Symbols     []CachedSymbol
}

// DiskCache stores analysis payloads keyed by content digest. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes the cache under the user cache directory
// (XDG_CACHE_HOME aware), creating it as needed.
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

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put serializes the payload and replaces the entry atomically.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
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
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry; a missing entry is (false, nil).
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
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
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

func unitToPayload(u *Unit) *Payload {
	p := &Payload{Schema: cacheSchemaVersion}
	for _, d := range u.Bag.Items() {
		p.Diagnostics = append(p.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	if u.Table != nil {
		for _, e := range u.Table.AllSymbols() {
			p.Symbols = append(p.Symbols, CachedSymbol{Name: e.Name, Kind: uint8(e.Kind)})
		}
	}
	return p
}

func payloadToUnit(p *Payload, path string, id source.FileID) *Unit {
	if p == nil || p.Schema != cacheSchemaVersion {
		return nil
	}
	bag := diag.NewBag(len(p.Diagnostics) + 1)
	for _, d := range p.Diagnostics {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: id, Start: d.Start, End: d.End},
		})
	}
	return &Unit{Path: path, FileID: id, Bag: bag, FromCache: true}
}
