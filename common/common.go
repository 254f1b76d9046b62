package common

import (
	"database/sql"
	"time"

	log "github.com/Sirupsen/logrus"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"gopkg.in/olivere/elastic.v6"

	"github.com/karchag/karchag-backend/cache"
	"github.com/karchag/karchag-backend/utils"
)

var (
	DB *sql.DB
	// ESC is nil when elasticsearch.url is not configured
	ESC   *elastic.Client
	CACHE cache.CacheManager
)

func Init() time.Time {
	return InitWithDefault(nil)
}

func InitWithDefault(defaultDb *sql.DB) time.Time {
	var err error
	clock := time.Now()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if defaultDb != nil {
		DB = defaultDb
	} else {
		log.Info("Setting up connection to DB")
		DB, err = sql.Open("postgres", viper.GetString("db.url"))
		utils.Must(err)
		utils.Must(DB.Ping())
	}
	boil.SetDB(DB)
	boil.DebugMode = viper.GetString("server.boiler-mode") == "debug"

	ESC = nil
	if url := viper.GetString("elasticsearch.url"); url != "" {
		log.Info("Setting up connection to ElasticSearch")
		ESC, err = NewESClient(url)
		if err != nil {
			log.Warnf("ElasticSearch unavailable, full-text search disabled: %s", err.Error())
			ESC = nil
		}
	}

	return clock
}

func NewESClient(url string) (*elastic.Client, error) {
	esc, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheckInterval(10*time.Second),
		elastic.SetErrorLog(log.StandardLogger()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "elastic.NewClient")
	}

	esversion, err := esc.ElasticsearchVersion(url)
	if err != nil {
		esc.Stop()
		return nil, errors.Wrap(err, "ElasticsearchVersion")
	}
	log.Infof("Elasticsearch version %s", esversion)
	return esc, nil
}

// InitCache starts the periodic stats refresh. Only the server needs it.
func InitCache() {
	refreshIntervals := map[string]time.Duration{
		"CatalogStats": viper.GetDuration("cache.refresh-interval"),
	}
	CACHE = cache.NewCacheManagerImpl(DB, refreshIntervals)
}

func Shutdown() {
	if CACHE != nil {
		CACHE.Close()
	}
	if ESC != nil {
		ESC.Stop()
	}
	utils.Must(DB.Close())
}
