package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/karchag/karchag-backend/api"
	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/events"
	"github.com/karchag/karchag-backend/utils"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.json>",
	Short: "Bulk import texts from a CSV or JSON file",
	Args:  cobra.ExactArgs(1),
	Run:   importFn,
}

func init() {
	RootCmd.AddCommand(importCmd)
}

func importFn(cmd *cobra.Command, args []string) {
	clock := common.Init()
	defer common.Shutdown()

	publisher := newPublisher()
	defer publisher.Close()

	f, err := os.Open(args[0])
	utils.Must(err)
	defer f.Close()

	importer := &api.TextImporter{
		DB: common.DB,
		OnCreate: func(id int64) {
			if err := publisher.Publish(events.NewEvent(consts.E_TEXT_CREATE, consts.TBL_TEXTS, id)); err != nil {
				log.Errorf("publish %s %d: %s", consts.E_TEXT_CREATE, id, err.Error())
			}
		},
	}

	resp, herr := importer.ImportFile(context.Background(), filepath.Base(args[0]), f)
	if herr != nil {
		log.Fatalf("Import %s: %s", args[0], herr.Error())
	}

	for _, msg := range resp.Errors {
		log.Warn(msg)
	}
	log.Infof("%s [%s]", resp.Message, resp.Status)
	log.Infof("Import took %s", time.Since(clock))
}
