package cmd

import (
	"github.com/spf13/cobra"
)

// tasksTriggerCmd represents the tasks trigger command
var tasksTriggerCmd = &cobra.Command{
	Use:   "trigger <name>",
	Short: "Run a background task out of schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		correlation, err := c.TriggerTask(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlation, "Cannot trigger task")
		}

		logSuccess("Task %s triggered", bold(args[0]))
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksTriggerCmd)
}
