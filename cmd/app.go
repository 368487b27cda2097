package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the cample service",
	Long: `The cample service is a json api for managing timetables
and the database it runs on (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
