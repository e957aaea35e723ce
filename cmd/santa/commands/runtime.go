package commands

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/santa-org/santa/pkg/cachestore"
	"github.com/santa-org/santa/pkg/santa"
	"github.com/rs/zerolog/log"
)

// buildPlanner wires a Cache (optionally sqlite-backed) and a ProcessDriver
// into a Planner, ready to run Status/Install against a resolved config.
func buildPlanner(ctx context.Context) (*santa.Planner, func(), error) {
	logger := log.Logger
	cleanup := func() {}

	dbPath := resolveCacheDBPath()
	var backing santa.CacheBacking
	if !noCache && dbPath != "" {
		store, err := cachestore.New(ctx, cachestore.Config{Path: dbPath})
		if err != nil {
			return nil, cleanup, err
		}
		backing = santa.NewSQLiteCacheBacking(store)
		cleanup = func() { store.Close() }
	}

	ttl := resolveCacheTTL()
	capacity := resolveCacheSize()
	if noCache {
		capacity = 0
	}
	cache := santa.NewCache(ttl, capacity, backing, logger)
	driver := santa.NewProcessDriver(logger)
	return santa.NewPlanner(cache, driver, logger), cleanup, nil
}

// resolveCacheDBPath honors --cache-db first, then SANTA_CACHE_DB, then the
// documented default warm-start path; an empty result means "in-memory
// only, no sqlite backing".
func resolveCacheDBPath() string {
	if cacheDBPath != "" {
		return cacheDBPath
	}
	if v := os.Getenv("SANTA_CACHE_DB"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".santa", "cache.db")
}

// resolveCacheTTL honors SANTA_CACHE_TTL_SECONDS, falling back to the
// package's default TTL when unset or unparseable.
func resolveCacheTTL() time.Duration {
	v := os.Getenv("SANTA_CACHE_TTL_SECONDS")
	if v == "" {
		return santa.DefaultCacheTTL
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		log.Warn().Str("value", v).Msg("ignoring invalid SANTA_CACHE_TTL_SECONDS")
		return santa.DefaultCacheTTL
	}
	return time.Duration(seconds) * time.Second
}

// resolveCacheSize honors SANTA_CACHE_SIZE, falling back to the package's
// default capacity when unset or unparseable.
func resolveCacheSize() int {
	v := os.Getenv("SANTA_CACHE_SIZE")
	if v == "" {
		return santa.DefaultCacheCapacity
	}
	size, err := strconv.Atoi(v)
	if err != nil || size <= 0 {
		log.Warn().Str("value", v).Msg("ignoring invalid SANTA_CACHE_SIZE")
		return santa.DefaultCacheCapacity
	}
	return size
}

// santaNewWatcher wires a Watcher whose reload function re-runs this
// command's layered loadConfig.
func santaNewWatcher(path string, initial *santa.ResolvedConfig) (*santa.Watcher, error) {
	return santa.NewWatcher(path, initial, loadConfig, log.Logger)
}

// desiredFromConfig flattens a ResolvedConfig's packages into the
// per-source desired-name map Planner.Status/Install expect.
func desiredFromConfig(cfg *santa.ResolvedConfig) map[string][]string {
	desired := make(map[string][]string, len(cfg.SourceOrder))
	for _, name := range cfg.SourceOrder {
		desired[name] = nil
	}
	for pkgName, pkg := range cfg.Packages {
		sources := pkg.Sources
		if len(sources) == 0 {
			sources = cfg.SourceOrder
		}
		for _, src := range sources {
			if _, ok := cfg.Sources[src]; !ok {
				continue
			}
			desired[src] = append(desired[src], pkgName)
		}
	}
	return desired
}
