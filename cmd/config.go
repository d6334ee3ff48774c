package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with server configuration files",
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "ticketbind.yaml", "server configuration file")
}
