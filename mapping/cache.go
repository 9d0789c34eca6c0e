package mapping

import (
	"context"
	"crypto/sha1"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"os"
	"path/filepath"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/internal/httpx"
)

// HashCode names a supported digest algorithm for a cached artifact, per
// spec.md §4.8.
type HashCode int

const (
	Sha1 HashCode = iota
	Sha512
)

func (h HashCode) String() string {
	switch h {
	case Sha1:
		return "sha1"
	case Sha512:
		return "sha512"
	default:
		return "unknown-hash"
	}
}

func (h HashCode) new() hash.Hash {
	switch h {
	case Sha1:
		return sha1.New()
	case Sha512:
		return sha512.New()
	default:
		panic(fmt.Sprintf("unhandled HashCode %d", h))
	}
}

// MappingDownload describes one artifact to fetch and verify: where it
// comes from, what algorithm and digest it must hash to, and (if known in
// advance) its size. Kind is a short cache-key discriminator such as
// "mojang" or "fabric_intermediary", distinguishing artifacts that might
// otherwise share a Source URL across differing hash expectations.
type MappingDownload struct {
	Kind   string
	Source string
	Hash   HashCode
	Digest string
	// Size, if non-zero, is checked against the downloaded artifact's
	// length before the digest is even computed — a cheap first filter.
	Size int64
}

// cacheKey names the path this download is stored under inside the cache
// directory: a subdirectory per Kind, and a file named after the
// expected digest's algorithm and hex value.
func (d MappingDownload) cacheKey() string {
	return filepath.Join(d.Kind, fmt.Sprintf("%s.%s.mapsrc", d.Hash, d.Digest))
}

// cacheDirName is the per-user cache root's subdirectory, the equivalent
// of test/internal/cache's "clair-testing" constant for this tool.
const cacheDirName = "net.octyl.stacked-portrayals"

// DefaultCacheDir returns the platform-appropriate per-user cache
// directory for this tool, creating it if necessary.
func DefaultCacheDir() (string, error) {
	d, err := os.UserCacheDir()
	if err != nil {
		return "", newErr(KindIOFailure, err, "determining user cache directory")
	}
	dir := filepath.Join(d, cacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", newErr(KindIOFailure, err, "creating cache directory %s", dir)
	}
	return dir, nil
}

// Fetcher retrieves the bytes at a MappingDownload's Source. Production
// code uses internal/httpx; tests substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DefaultFetcher returns the production Fetcher, backed by net/http.
func DefaultFetcher() Fetcher {
	return httpx.Client{}
}

// Cache is a content-verified, self-healing on-disk download cache, per
// spec.md §4.8 (testable properties 1 and 2). A cache miss, a size
// mismatch, or a hash mismatch all trigger a re-download; an artifact that
// still fails to validate after maxCacheAttempts attempts is reported as
// KindIntegrityFailure.
type Cache struct {
	Dir     string
	Fetcher Fetcher
}

const maxCacheAttempts = 5

// NewCache constructs a Cache rooted at dir, creating it if necessary.
func NewCache(dir string, fetcher Fetcher) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, newErr(KindIOFailure, err, "creating cache directory %s", dir)
	}
	return &Cache{Dir: dir, Fetcher: fetcher}, nil
}

// Load returns the bytes for d, validated against its declared size and
// digest. It first tries the on-disk cache entry; a validation failure
// there is treated exactly like a failed download and retried from Source.
func (c *Cache) Load(ctx context.Context, d MappingDownload) ([]byte, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "mapping/Cache.Load", "kind", d.Kind, "source", d.Source)
	path := filepath.Join(c.Dir, d.cacheKey())

	if data, err := os.ReadFile(path); err == nil {
		if verr := d.validate(data); verr == nil {
			zlog.Debug(ctx).Msg("cache hit")
			return data, nil
		} else {
			zlog.Debug(ctx).Err(verr).Msg("cache entry failed validation; evicting")
			_ = os.Remove(path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, newErr(KindIOFailure, err, "reading cache entry %s", path)
	}

	var lastErr error
	for attempt := 1; attempt <= maxCacheAttempts; attempt++ {
		data, err := c.Fetcher.Fetch(ctx, d.Source)
		if err != nil {
			lastErr = newErr(KindNetworkFailure, err, "fetching %s (attempt %d/%d)", d.Source, attempt, maxCacheAttempts)
			zlog.Debug(ctx).Int("attempt", attempt).Err(err).Msg("fetch failed")
			continue
		}
		if verr := d.validate(data); verr != nil {
			lastErr = verr
			zlog.Debug(ctx).Int("attempt", attempt).Err(verr).Msg("downloaded artifact failed validation")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, newErr(KindIOFailure, err, "creating cache subdirectory for %s", path)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, newErr(KindIOFailure, err, "writing cache entry %s", path)
		}
		zlog.Info(ctx).Int("attempt", attempt).Int("bytes", len(data)).Msg("cached new artifact")
		return data, nil
	}
	return nil, fmt.Errorf("exhausted %d attempts loading %s: %w", maxCacheAttempts, d.Source, lastErr)
}

// validate checks data's size (if d.Size is set) and digest against d,
// returning a KindIntegrityFailure error describing the first mismatch.
func (d MappingDownload) validate(data []byte) error {
	if d.Size != 0 && int64(len(data)) != d.Size {
		return newErr(KindIntegrityFailure, nil, "size mismatch for %s: got %d, want %d", d.Source, len(data), d.Size)
	}
	h := d.Hash.new()
	h.Write(data)
	got := fmt.Sprintf("%x", h.Sum(nil))
	if got != d.Digest {
		return newErr(KindIntegrityFailure, nil, "%s digest mismatch for %s: got %s, want %s", d.Hash, d.Source, got, d.Digest)
	}
	return nil
}
