package cmd

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/darmiel/ticketbind/internal/cliconfig"
)

var (
	loginClientID     string
	loginClientSecret string
	loginUsername     string
	loginNoSave       bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain an access token from the server and store it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		password := os.Getenv("TICKETBIND_PASSWORD")
		if password == "" {
			fmt.Printf("Password for %s: ", bold(loginUsername))
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = string(raw)
		}

		resp, correlation, err := c.IssueToken(cmd.Context(), loginClientID, loginClientSecret, loginUsername, password)
		if err != nil {
			return logError(err, correlation, "Login failed")
		}

		logSuccess("Logged in as %s (token expires in %ds)", bold(loginUsername), resp.ExpiresIn)

		if loginNoSave {
			fmt.Println(resp.AccessToken)
			return nil
		}

		server := viper.GetString(ServerAddrKey)
		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading CLI config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{Token: resp.AccessToken}); err != nil {
			return fmt.Errorf("storing credential: %w", err)
		}
		if err := cliconfig.Save(cfg); err != nil {
			return fmt.Errorf("saving CLI config: %w", err)
		}

		logSuccess("Token saved for %s", server)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginClientID, "client-id", "", "OAuth client ID (service name)")
	loginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "OAuth client secret")
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to authenticate as")
	loginCmd.Flags().BoolVar(&loginNoSave, "no-save", false, "Print the token instead of saving it")

	_ = loginCmd.MarkFlagRequired("client-id")
	_ = loginCmd.MarkFlagRequired("username")
}
