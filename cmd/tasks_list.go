package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// tasksListCmd represents the tasks list command
var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List background tasks and their last results",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		statuses, err := c.ListTasks(cmd.Context())
		if err != nil {
			return logError(err, "", "Cannot list tasks")
		}

		t := table.NewWriter()
		applyTableFormat(t)
		t.AppendHeader(table.Row{"Name", "Running", "Last Run", "Result", "Next Run"})

		for _, s := range statuses {
			running := faint("-")
			if s.Running {
				running = greenCheck
			}

			result := faint("never ran")
			switch {
			case s.LastResult == "success":
				result = greenCheck + " success"
			case strings.HasPrefix(s.LastResult, "failed"):
				result = redCross + " " + s.LastResult
			case s.LastResult != "":
				result = s.LastResult
			}

			lastRun := faint("-")
			if !s.LastRun.IsZero() {
				lastRun = s.LastRun.Format(time.RFC3339)
			}
			nextRun := faint("manual")
			if !s.NextRun.IsZero() {
				nextRun = s.NextRun.Format(time.RFC3339)
			}

			t.AppendRow(table.Row{s.Name, running, lastRun, result, nextRun})
		}

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksListCmd)
}
