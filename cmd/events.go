package cmd

import (
	"github.com/spf13/cobra"

	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/events"
	"github.com/karchag/karchag-backend/utils"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Catalog events listener, keeps the texts index in sync",
	Run:   eventsFn,
}

func init() {
	RootCmd.AddCommand(eventsCmd)
}

func eventsFn(cmd *cobra.Command, args []string) {
	common.Init()
	defer common.Shutdown()

	utils.Must(events.RunListener(textsIndex()))
}
