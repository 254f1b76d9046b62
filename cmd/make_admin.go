package cmd

import (
	"context"
	"database/sql"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/karchag/karchag-backend/common"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

var makeAdminCmd = &cobra.Command{
	Use:   "make-admin <username>",
	Short: "Grant admin privileges to an existing user",
	Args:  cobra.ExactArgs(1),
	Run:   makeAdminFn,
}

func init() {
	RootCmd.AddCommand(makeAdminCmd)
}

func makeAdminFn(cmd *cobra.Command, args []string) {
	common.Init()
	defer common.Shutdown()

	utils.Must(makeAdmin(context.Background(), common.DB, args[0]))
	log.Infof("User %s is now an admin", args[0])
}

func makeAdmin(ctx context.Context, db *sql.DB, username string) error {
	u, err := models.Users(qm.Where("username = ?", username)).One(ctx, db)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return errors.Errorf("User %s not found", username)
		}
		return err
	}
	if u.IsAdmin {
		return nil
	}

	u.IsAdmin = true
	return u.Update(ctx, db)
}
