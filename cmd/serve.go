package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Pjt727/cample/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the api service",
	Long:  `Runs the api service until it receives an interrupt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx, cfg, logger)
	},
}

func init() {
	appCmd.AddCommand(serveCmd)
}
