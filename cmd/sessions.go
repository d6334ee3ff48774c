package cmd

import (
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Inspect and revoke active sessions",
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
