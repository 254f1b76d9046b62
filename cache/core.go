package cache

import (
	"database/sql"
	"time"

	log "github.com/Sirupsen/logrus"

	"github.com/karchag/karchag-backend/utils"
)

type Refreshable interface {
	Refresh() error
}

type Provider interface {
	Refreshable
	String() string
}

type CacheManager interface {
	CatalogStats() CatalogStatsCache
	Close()
}

type CacheManagerImpl struct {
	catalog          CatalogStatsCache
	ticker           *time.Ticker
	ticks            int64
	refreshIntervals map[string]int64
	providers        []Provider
}

func NewCacheManagerImpl(db *sql.DB, refreshIntervals map[string]time.Duration) CacheManager {
	cm := new(CacheManagerImpl)
	cm.catalog = NewCatalogStatsCacheImpl(db)
	cm.providers = []Provider{cm.catalog}

	cm.refresh()

	// Convert time.Duration to int64
	// So we would have refresh intervals in integer multiple of a second
	cm.refreshIntervals = make(map[string]int64, len(refreshIntervals))
	for k, v := range refreshIntervals {
		secs := int64(v.Truncate(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		cm.refreshIntervals[k] = secs
	}
	if _, ok := cm.refreshIntervals["CatalogStats"]; !ok {
		cm.refreshIntervals["CatalogStats"] = int64((5 * time.Minute).Seconds())
	}

	cm.ticker = time.NewTicker(time.Second)
	go func() {
		for range cm.ticker.C {
			cm.ticks++
			if cm.ticks%cm.refreshIntervals["CatalogStats"] == 0 {
				cm.refresh()
			}
		}
	}()

	return cm
}

func (cm *CacheManagerImpl) Close() {
	cm.ticker.Stop()
}

func (cm *CacheManagerImpl) CatalogStats() CatalogStatsCache {
	return cm.catalog
}

func (cm *CacheManagerImpl) refresh() {
	for _, p := range cm.providers {
		log.Infof("Refreshing %s", p)
		if err := p.Refresh(); err != nil {
			log.Errorf("Refresh %s: %s", p, err.Error())
			utils.LogError(err)
		}
	}
}
