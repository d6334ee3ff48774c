package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var sessionsListOwner string

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		sessions, err := c.ListSessions(cmd.Context(), sessionsListOwner)
		if err != nil {
			return logError(err, "", "Cannot list sessions")
		}
		if len(sessions) == 0 {
			fmt.Println(faint("no active sessions"))
			return nil
		}

		t := table.NewWriter()
		applyTableFormat(t)
		t.AppendHeader(table.Row{"Ticket", "Owner", "Kind", "Created", "Expires"})

		now := time.Now()
		for _, s := range sessions {
			expires := s.ExpiresAt().Format(time.RFC3339)
			if s.ExpiresAt().Before(now) {
				expires = color.RedString("%s (expired)", expires)
			}
			t.AppendRow(table.Row{
				truncate(s.ID, 24),
				s.Owner,
				s.Kind,
				s.CreatedAt.Format(time.RFC3339),
				expires,
			})
		}

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)

	sessionsListCmd.Flags().StringVar(&sessionsListOwner, "owner", "", "Only show sessions owned by this principal")
}
