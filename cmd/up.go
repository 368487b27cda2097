package cmd

import (
	"errors"

	"github.com/Pjt727/cample/migrations"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Runs the up migrations",
	Long:  `Runs the up migrations and errors if there the up migrations cannot work`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DBConn == "" {
			return errors.New("DB_CONN is not set")
		}
		if err := migrations.Up(cfg.DBConn); err != nil {
			logger.Error("Could not run up migrations", "err", err)
			return err
		}
		logger.Info("Database has been synced with any up migrations")
		return nil
	},
}

func init() {
	appCmd.AddCommand(upCmd)
}
