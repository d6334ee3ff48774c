package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ticketbind/internal/buildinfo"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show version information of the CLI or a remote server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// without a server address, report the local build
		if viper.GetString(ServerAddrKey) == "" {
			local := buildinfo.GetBuildInfo()
			printInfo("local", &local)
			return nil
		}

		c, err := getClient()
		if err != nil {
			return err
		}
		info, correlation, err := c.Info(cmd.Context())
		if err != nil {
			return logError(err, correlation, "Cannot reach server")
		}
		printInfo("server", info)
		return nil
	},
}

func printInfo(scope string, info *buildinfo.Info) {
	fmt.Println(bold(scope))
	if info.Service != "" {
		fmt.Printf("  %s %s\n", faint("service:"), info.Service)
	}
	fmt.Printf("  %s %s\n", faint("version:"), info.Version)
	fmt.Printf("  %s %s\n", faint("commit: "), info.CommitHash)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
