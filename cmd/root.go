package cmd

import (
	"log/slog"
	"os"

	"github.com/Pjt727/cample/data"
	logginghelpers "github.com/Pjt727/cample/data/logging-helpers"
	"github.com/spf13/cobra"
)

var (
	cfg      data.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cample",
	Short: "cample keeps a student's timetable and calendar in step",
	Long: `cample enrolls students in courses, detects time conflicts between
courses and writes every weekly lecture of the semester into the student's calendar`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = data.LoadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err = logginghelpers.NewLogger(os.Stdout, logginghelpers.Options{
			Format: cfg.LogFormat,
			Level:  cfg.LogLevel,
			File:   cfg.LogFile,
		})
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
