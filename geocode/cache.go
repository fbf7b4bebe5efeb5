package geocode

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache persists geocode results in a local sqlite file, keyed by the
// lower-cased, trimmed query. Negative results are cached too so a
// hopeless address is not re-queried on every keystroke session.
type Cache struct {
	db *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	cache := &Cache{db: db}
	if err := cache.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS geocode_results (
		query TEXT PRIMARY KEY,
		lat REAL,
		lng REAL,
		found BOOLEAN NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	_, err := c.db.Exec(schema)
	return err
}

func (c *Cache) Get(ctx context.Context, query string) (Result, bool, error) {
	var result Result
	err := c.db.QueryRowContext(ctx,
		`SELECT lat, lng, found FROM geocode_results WHERE query = ?`,
		cacheKey(query),
	).Scan(&result.Lat, &result.Lng, &result.Found)
	if err == sql.ErrNoRows {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	return result, true, nil
}

func (c *Cache) Put(ctx context.Context, query string, result Result) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO geocode_results (query, lat, lng, found, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(query) DO UPDATE SET
			lat = excluded.lat,
			lng = excluded.lng,
			found = excluded.found,
			updated_at = excluded.updated_at`,
		cacheKey(query), result.Lat, result.Lng, result.Found, time.Now(),
	)
	return err
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// CachedGeocoder consults the cache before the underlying geocoder and
// writes fresh results back. Cache failures fall through to the network.
type CachedGeocoder struct {
	Geocoder Geocoder
	Cache    *Cache
}

func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	if g.Cache != nil {
		if result, ok, err := g.Cache.Get(ctx, query); err == nil && ok {
			return result, nil
		}
	}

	result, err := g.Geocoder.Geocode(ctx, query)
	if err != nil {
		return Result{}, err
	}

	if g.Cache != nil {
		if err := g.Cache.Put(ctx, query, result); err != nil {
			// Cache is best-effort; the result still stands.
			return result, nil
		}
	}

	return result, nil
}
