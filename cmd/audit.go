package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var auditLimit uint

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent audit entries from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		entries, err := c.ListAudits(cmd.Context(), auditLimit)
		if err != nil {
			return logError(err, "", "Cannot list audit entries")
		}
		if len(entries) == 0 {
			fmt.Println(faint("no audit entries"))
			return nil
		}

		t := table.NewWriter()
		applyTableFormat(t)
		t.AppendHeader(table.Row{"Time", "Action", "Principal", "Client", "Session", "Correlation"})

		for _, e := range entries {
			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				e.PrincipalID,
				e.ClientID,
				truncate(e.SessionID, 24),
				truncate(e.ID, 12),
			})
		}

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().UintVarP(&auditLimit, "limit", "n", 50, "Maximum number of entries to show")
}
