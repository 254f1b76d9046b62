package cmd

import (
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/es"
	"github.com/karchag/karchag-backend/utils"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Recreate the texts index and push all active texts to ElasticSearch",
	Run:   indexFn,
}

var deleteIndexCmd = &cobra.Command{
	Use:   "delete_index",
	Short: "Delete the texts index.",
	Run:   deleteIndexFn,
}

func init() {
	RootCmd.AddCommand(indexCmd)
	RootCmd.AddCommand(deleteIndexCmd)
}

func textsIndex() *es.TextsIndex {
	if common.ESC == nil {
		log.Fatal("ElasticSearch is not configured, set elasticsearch.url")
	}
	return es.NewTextsIndex(common.ESC, common.DB, viper.GetString("elasticsearch.index"))
}

func indexFn(cmd *cobra.Command, args []string) {
	clock := common.Init()
	defer common.Shutdown()

	index := textsIndex()
	log.Infof("Recreating index %s", index.Name())
	utils.Must(index.CreateIndex())
	utils.Must(index.ReindexAll())

	log.Infof("Indexing took %s", time.Now().Sub(clock))
}

func deleteIndexFn(cmd *cobra.Command, args []string) {
	common.Init()
	defer common.Shutdown()

	index := textsIndex()
	utils.Must(index.DeleteIndex())
	log.Infof("Deleted index %s", index.Name())
}
