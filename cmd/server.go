package cmd

import (
	"strings"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stvp/rollbar"
	"gopkg.in/gin-contrib/cors.v1"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/api"
	"github.com/karchag/karchag-backend/auth"
	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/events"
	"github.com/karchag/karchag-backend/storage"
	"github.com/karchag/karchag-backend/utils"
	"github.com/karchag/karchag-backend/version"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Catalog API server",
	Run:   serverFn,
}

func init() {
	RootCmd.AddCommand(serverCmd)
}

func serverFn(cmd *cobra.Command, args []string) {
	clock := common.Init()
	defer common.Shutdown()

	log.Infof("Starting %s server version %s", version.Name, version.Version)

	tokens, err := auth.NewTokenManager(
		viper.GetString("auth.secret"),
		viper.GetString("auth.issuer"),
		viper.GetString("auth.audience"),
		viper.GetDuration("auth.access-ttl"),
		viper.GetDuration("auth.refresh-ttl"))
	utils.Must(err)

	publisher := newPublisher()
	defer publisher.Close()

	var store storage.Storage
	if s, err := storage.FromConfig(); err != nil {
		log.Warnf("Media storage disabled: %s", err.Error())
	} else {
		log.Infof("Media storage: %s", s)
		store = s
	}

	common.InitCache()

	// Setup Rollbar
	rollbar.Token = viper.GetString("server.rollbar-token")
	rollbar.Environment = viper.GetString("server.rollbar-environment")
	rollbar.CodeVersion = version.Version

	// Setup gin
	gin.SetMode(viper.GetString("server.mode"))
	router := gin.New()

	var recovery gin.HandlerFunc
	if len(rollbar.Token) > 0 {
		recovery = utils.RollbarRecoveryMiddleware()
	} else {
		recovery = utils.RecoveryMiddleware()
	}

	router.Use(
		utils.LoggerMiddleware(),
		utils.DataStoresMiddleware(common.DB, common.ESC, publisher, store, common.CACHE, tokens),
		utils.ErrorHandlingMiddleware(),
		cors.New(cors.Config{
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept-Language"},
			AllowCredentials: false,
			AllowAllOrigins:  true,
			MaxAge:           12 * time.Hour,
		}),
		recovery)

	// local uploads are served by us unless the base url points elsewhere
	if local, ok := store.(*storage.LocalStorage); ok {
		if base := viper.GetString("storage.base-url"); strings.HasPrefix(base, "/") {
			router.Static(base, local.Dir())
		}
	}

	api.SetupRoutes(router)

	log.Infof("Initialization took %s", time.Now().Sub(clock))
	log.Infoln("Running application")
	if cmd != nil {
		router.Run(viper.GetString("server.bind-address"))
	}

	if len(rollbar.Token) > 0 {
		rollbar.Wait()
	}
}

// newPublisher falls back to a no-op publisher when NATS is disabled or unreachable.
func newPublisher() events.Publisher {
	if !viper.GetBool("nats.enabled") {
		log.Info("NATS disabled, events are not published")
		return new(events.NoopPublisher)
	}

	p, err := events.NewNatsPublisher(
		viper.GetString("nats.url"),
		viper.GetString("nats.cluster-id"),
		viper.GetString("nats.client-id"),
		viper.GetString("nats.subject"))
	if err != nil {
		log.Errorf("NATS publisher: %s", err.Error())
		utils.LogError(err)
		return new(events.NoopPublisher)
	}
	return p
}
