package cmd

import (
	"github.com/spf13/cobra"
)

// clientsCmd represents the clients command
var clientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"client"},
	Short:   "Inspect the OAuth client records of a configuration",
}

func init() {
	rootCmd.AddCommand(clientsCmd)

	clientsCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "ticketbind.yaml", "server configuration file")
}
