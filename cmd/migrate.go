package cmd

import (
	"github.com/spf13/cobra"

	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/migrations"
	"github.com/karchag/karchag-backend/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run:   migrateUpFn,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	Run:   migrateDownFn,
}

var downSteps int

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateDownCmd)
	RootCmd.AddCommand(migrateCmd)
}

func migrateUpFn(cmd *cobra.Command, args []string) {
	common.Init()
	defer common.Shutdown()

	_, err := migrations.ApplyUp(common.DB)
	utils.Must(err)
}

func migrateDownFn(cmd *cobra.Command, args []string) {
	common.Init()
	defer common.Shutdown()

	_, err := migrations.ApplyDown(common.DB, downSteps)
	utils.Must(err)
}
