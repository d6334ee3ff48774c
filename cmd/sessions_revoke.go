package cmd

import (
	"github.com/spf13/cobra"
)

// sessionsRevokeCmd represents the sessions revoke command
var sessionsRevokeCmd = &cobra.Command{
	Use:     "revoke <ticket>",
	Aliases: []string{"rm", "delete"},
	Short:   "Revoke a session by ticket ID",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		correlation, err := c.RevokeSession(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlation, "Cannot revoke session")
		}

		logSuccess("Session %s revoked", bold(args[0]))
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsRevokeCmd)
}
