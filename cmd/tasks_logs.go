package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// tasksLogsCmd represents the tasks logs command
var tasksLogsCmd = &cobra.Command{
	Use:   "logs <name>",
	Short: "Show the log of a task's most recent run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		logs, err := c.TaskLogs(cmd.Context(), args[0])
		if err != nil {
			return logError(err, "", "Cannot retrieve task logs")
		}
		if len(logs) == 0 {
			fmt.Println(faint("no logs recorded"))
			return nil
		}

		for _, entry := range logs {
			level := strings.ToUpper(entry.Level)
			switch entry.Level {
			case "error":
				level = color.RedString(level)
			case "warn":
				level = color.YellowString(level)
			}
			fmt.Printf("%s %-5s %s\n", faint(entry.Time.Format(time.RFC3339)), level, entry.Message)
		}
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksLogsCmd)
}
