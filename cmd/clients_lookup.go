package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darmiel/ticketbind/internal/clients"
	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/registry"
)

// clientsLookupCmd represents the clients lookup command
var clientsLookupCmd = &cobra.Command{
	Use:   "lookup <client-id>",
	Short: "Resolve a client ID against the configured service registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		directory := clients.NewDirectory(
			registry.NewInMemory(cfg.Registry.Services),
			cfg.OAuth.AuthorizedGrantTypes,
		)

		record, err := directory.Lookup(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, clients.ErrClientNotFound) {
				return logError(err, "", fmt.Sprintf("No client %q in the registry", args[0]))
			}
			return err
		}

		fmt.Println(bold(record.ClientID))
		fmt.Printf("  %s %s\n", faint("grant types:"), strings.Join(record.AuthorizedGrantTypes, ", "))
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsLookupCmd)
}
