package cmd

import (
	"github.com/spf13/cobra"

	"github.com/darmiel/ticketbind/internal/config"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a server configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return logError(err, "", "Configuration is invalid")
		}

		logSuccess("Configuration is valid")
		logSuccess("%d service(s), %d authenticator(s), session store: %s",
			len(cfg.Registry.Services), len(cfg.Authenticators), cfg.Sessions.Store)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
