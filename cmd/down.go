package cmd

import (
	"errors"

	"github.com/Pjt727/cample/migrations"
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Runs every down migration",
	Long: `Reverts every migration which drops all enrollments and lecture events.
The command refuses to run without --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// this is really scary so only drop the database when asked twice
		confirmed, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if !confirmed {
			return errors.New("refusing to drop the database without --yes")
		}
		if cfg.DBConn == "" {
			return errors.New("DB_CONN is not set")
		}
		if err := migrations.Down(cfg.DBConn); err != nil {
			logger.Error("Could not run down migrations", "err", err)
			return err
		}
		logger.Warn("Every migration has been reverted")
		return nil
	},
}

func init() {
	appCmd.AddCommand(downCmd)
	downCmd.Flags().Bool("yes", false, "confirm dropping every table")
}
