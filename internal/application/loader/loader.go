package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"nemostore-eda/internal/domain"
	"nemostore-eda/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Loader reads raw listing snapshots from the relational store or from CSV
// uploads. Every failure degrades to an empty dataset plus an error wrapping
// ErrSourceUnavailable or ErrSourceReadFailure; nothing here panics.
//
// Results are memoized in Cache by source identity. Concurrent loads of the
// same key share one read, and every caller gets its own copy.
type Loader struct {
	StorePaths  []string
	DatabaseURL string
	Cache       Cache

	open  func(dsn string) (*gorm.DB, error)
	group singleflight.Group

	mu           sync.Mutex
	lastStoreKey string
}

// New returns a Loader probing storePaths in order. A non-empty databaseURL
// takes precedence over the file probe. A nil cache means an in-process one.
func New(storePaths []string, databaseURL string, cache Cache) *Loader {
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	return &Loader{
		StorePaths:  storePaths,
		DatabaseURL: databaseURL,
		Cache:       cache,
		open:        database.Open,
	}
}

// StoreLocation describes the relational source the next LoadStore would read.
type StoreLocation struct {
	DSN string
	Key string
}

// ResolveStore probes the configured locations without reading any rows.
func (l *Loader) ResolveStore() (StoreLocation, error) {
	if l.DatabaseURL != "" {
		return StoreLocation{DSN: l.DatabaseURL, Key: "dsn:" + digest([]byte(l.DatabaseURL))}, nil
	}
	for _, p := range l.StorePaths {
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		return StoreLocation{
			DSN: p,
			Key: fmt.Sprintf("store:%s:%d", p, fi.ModTime().UnixNano()),
		}, nil
	}
	return StoreLocation{}, fmt.Errorf("%w: none of %v exists", ErrSourceUnavailable, l.StorePaths)
}

// LoadStore reads the whole stores table.
func (l *Loader) LoadStore(ctx context.Context) (*domain.RawDataset, error) {
	loc, err := l.ResolveStore()
	if err != nil {
		log.Warn().Err(err).Msg("loader: no listing store found")
		return domain.EmptyRaw("store"), err
	}
	l.invalidateStaleStore(ctx, loc.Key)
	return l.readThrough(ctx, loc.Key, func(ctx context.Context) (*domain.RawDataset, error) {
		return l.queryStore(ctx, loc.DSN)
	})
}

// LoadCSV parses r as a comma-delimited snapshot with a header row. The
// returned key identifies the content and can be passed to Lookup later.
func (l *Loader) LoadCSV(ctx context.Context, name string, r io.Reader) (*domain.RawDataset, string, error) {
	if r == nil {
		err := fmt.Errorf("%w: no file supplied", ErrSourceUnavailable)
		return domain.EmptyRaw("csv"), "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("%w: read %s: %w", ErrSourceReadFailure, name, err)
		log.Error().Err(err).Str("file", name).Msg("loader: csv read failed")
		return domain.EmptyRaw("csv"), "", err
	}
	key := CSVKey(data)
	ds, err := l.readThrough(ctx, key, func(context.Context) (*domain.RawDataset, error) {
		return parseCSV(name, data)
	})
	if err != nil {
		return ds, "", err
	}
	return ds, key, nil
}

// Lookup returns a previously loaded CSV snapshot by its key.
func (l *Loader) Lookup(ctx context.Context, key string) (*domain.RawDataset, error) {
	if ds, ok := l.Cache.Get(ctx, key); ok {
		return ds.Clone(), nil
	}
	return domain.EmptyRaw("csv"), fmt.Errorf("%w: unknown source key %q", ErrSourceUnavailable, key)
}

// CSVKey is the cache key for an uploaded file's content.
func CSVKey(data []byte) string {
	return "csv:" + digest(data)
}

// readThrough serves key from the cache or runs load once for all concurrent
// callers. The shared load ignores the first caller's cancellation.
func (l *Loader) readThrough(ctx context.Context, key string, load func(context.Context) (*domain.RawDataset, error)) (*domain.RawDataset, error) {
	if ds, ok := l.Cache.Get(ctx, key); ok {
		log.Debug().Str("key", key).Msg("loader: cache hit")
		return ds.Clone(), nil
	}
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := l.group.Do(key, func() (interface{}, error) {
		if ds, ok := l.Cache.Get(loadCtx, key); ok {
			return ds, nil
		}
		ds, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		l.Cache.Set(loadCtx, key, ds)
		log.Info().Str("key", key).Int("rows", ds.Len()).Msg("loader: source loaded")
		return ds, nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("loader: load failed")
		return domain.EmptyRaw(sourceOf(key)), err
	}
	if shared {
		log.Debug().Str("key", key).Msg("loader: shared in-flight load")
	}
	return v.(*domain.RawDataset).Clone(), nil
}

// invalidateStaleStore drops the previous store snapshot once its file changed.
func (l *Loader) invalidateStaleStore(ctx context.Context, key string) {
	l.mu.Lock()
	prev := l.lastStoreKey
	l.lastStoreKey = key
	l.mu.Unlock()
	if prev != "" && prev != key {
		l.Cache.Delete(ctx, prev)
		log.Info().Str("old", prev).Str("new", key).Msg("loader: store changed, cache invalidated")
	}
}

func sourceOf(key string) string {
	if strings.HasPrefix(key, "csv:") {
		return "csv"
	}
	return "store"
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
