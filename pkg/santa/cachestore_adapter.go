package santa

import "github.com/santa-org/santa/pkg/cachestore"

// sqliteBacking adapts a *cachestore.Store to the CacheBacking interface.
// It exists because cacheRecord is unexported — cachestore must stay
// decoupled from pkg/santa's internals to avoid an import cycle back into
// this package from its own backing store.
type sqliteBacking struct {
	store *cachestore.Store
}

// NewSQLiteCacheBacking wraps store as a CacheBacking for use with NewCache.
func NewSQLiteCacheBacking(store *cachestore.Store) CacheBacking {
	return &sqliteBacking{store: store}
}

func (b *sqliteBacking) Load() (map[string]cacheRecord, error) {
	records, err := b.store.Load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]cacheRecord, len(records))
	for source, rec := range records {
		out[source] = cacheRecord{Packages: rec.Packages, Installed: rec.Installed}
	}
	return out, nil
}

func (b *sqliteBacking) Save(source string, rec cacheRecord) error {
	return b.store.Save(source, cachestore.Record{Packages: rec.Packages, Installed: rec.Installed})
}

func (b *sqliteBacking) Delete(source string) error {
	return b.store.Delete(source)
}
