package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"golang.org/x/sync/errgroup"

	"github.com/karchag/karchag-backend/models"
)

// NameCount marshals as a [name, count] pair.
type NameCount struct {
	Name  string
	Count int64
}

func (nc NameCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{nc.Name, nc.Count})
}

type CatalogStats struct {
	TotalTexts            int64       `json:"total_texts"`
	TotalCategories       int64       `json:"total_categories"`
	TotalSermons          int64       `json:"total_sermons"`
	TotalYanas            int64       `json:"total_yanas"`
	TotalTranslationTypes int64       `json:"total_translation_types"`
	TextsByCategory       []NameCount `json:"texts_by_category"`
	TextsByYana           []NameCount `json:"texts_by_yana"`
}

type CatalogStatsCache interface {
	Refresh() error
	String() string
	// Get returns the last good snapshot, nil before the first successful refresh
	Get() *CatalogStats
}

type CatalogStatsCacheImpl struct {
	db    *sql.DB
	mu    sync.RWMutex
	stats *CatalogStats
}

func NewCatalogStatsCacheImpl(db *sql.DB) CatalogStatsCache {
	return &CatalogStatsCacheImpl{db: db}
}

func (c *CatalogStatsCacheImpl) String() string {
	return "CatalogStatsCache"
}

func (c *CatalogStatsCacheImpl) Get() *CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *CatalogStatsCacheImpl) Refresh() error {
	stats, err := LoadCatalogStats(context.Background(), c.db)
	if err != nil {
		return errors.Wrap(err, "Load catalog stats.")
	}

	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
	return nil
}

var activeMod = qm.Where("is_active = ?", true)

// LoadCatalogStats counts active catalog entities in parallel.
func LoadCatalogStats(ctx context.Context, db *sql.DB) (*CatalogStats, error) {
	stats := new(CatalogStats)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalTexts, err = models.KagyurTexts(activeMod).Count(ctx, db)
		return
	})
	g.Go(func() (err error) {
		stats.TotalCategories, err = models.MainCategories(activeMod).Count(ctx, db)
		return
	})
	g.Go(func() (err error) {
		stats.TotalSermons, err = models.Sermons(activeMod).Count(ctx, db)
		return
	})
	g.Go(func() (err error) {
		stats.TotalYanas, err = models.Yanas(activeMod).Count(ctx, db)
		return
	})
	g.Go(func() (err error) {
		stats.TotalTranslationTypes, err = models.TranslationTypes(activeMod).Count(ctx, db)
		return
	})
	g.Go(func() (err error) {
		stats.TextsByCategory, err = loadNameCounts(ctx, db, `
SELECT mc.name_english, COUNT(t.id)
FROM main_categories mc
	INNER JOIN sub_categories sc ON mc.id = sc.main_category_id
	INNER JOIN kagyur_texts t ON sc.id = t.sub_category_id
WHERE t.is_active IS TRUE
GROUP BY mc.id, mc.name_english
ORDER BY mc.id`)
		return
	})
	g.Go(func() (err error) {
		stats.TextsByYana, err = loadNameCounts(ctx, db, `
SELECT y.name_english, COUNT(t.id)
FROM yanas y
	INNER JOIN kagyur_texts t ON y.id = t.yana_id
WHERE t.is_active IS TRUE
GROUP BY y.id, y.name_english
ORDER BY y.id`)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func loadNameCounts(ctx context.Context, db *sql.DB, query string) ([]NameCount, error) {
	rows, err := queries.Raw(query).QueryContext(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, "queries.Raw")
	}
	defer rows.Close()

	res := make([]NameCount, 0)
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, errors.Wrap(err, "rows.Scan")
		}
		res = append(res, nc)
	}
	return res, errors.Wrap(rows.Err(), "rows.Err()")
}
