package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	tokenIssueClientID     string
	tokenIssueClientSecret string
	tokenIssueUsername     string
	tokenIssueRaw          bool
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Request an access token via the password grant",
	Long: `Requests an access token from the server. When the authenticated
user has a live interactive session, the returned token is the session
ticket itself and expires together with the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		password := os.Getenv("TICKETBIND_PASSWORD")
		if password == "" {
			fmt.Printf("Password for %s: ", bold(tokenIssueUsername))
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = string(raw)
		}

		resp, correlation, err := c.IssueToken(cmd.Context(), tokenIssueClientID, tokenIssueClientSecret, tokenIssueUsername, password)
		if err != nil {
			return logError(err, correlation, "Token request failed")
		}

		if tokenIssueRaw {
			fmt.Println(resp.AccessToken)
			return nil
		}

		logSuccess("Token issued")
		fmt.Printf("  %s %s\n", faint("access_token:"), resp.AccessToken)
		fmt.Printf("  %s %s\n", faint("token_type:  "), resp.TokenType)
		fmt.Printf("  %s %d\n", faint("expires_in:  "), resp.ExpiresIn)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().StringVar(&tokenIssueClientID, "client-id", "", "OAuth client ID (service name)")
	tokenIssueCmd.Flags().StringVar(&tokenIssueClientSecret, "client-secret", "", "OAuth client secret")
	tokenIssueCmd.Flags().StringVarP(&tokenIssueUsername, "username", "u", "", "Username to authenticate as")
	tokenIssueCmd.Flags().BoolVar(&tokenIssueRaw, "raw", false, "Print only the token value")

	_ = tokenIssueCmd.MarkFlagRequired("client-id")
	_ = tokenIssueCmd.MarkFlagRequired("username")
}
