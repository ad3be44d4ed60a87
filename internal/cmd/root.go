package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Terminal client for the news portal",
	Long: `newsdesk is a terminal client for a news publishing portal.

Readers browse the published feed. Journalists log in with a one-time
password, write and edit drafts and send them for review. Reviewers
approve or reject submissions. Every change is made by the portal backend.

Examples:
  # Read the home feed
  newsdesk articles home

  # Log in with a one-time password
  newsdesk auth login --phone +15550001

  # Work through your drafts interactively
  newsdesk drafts browse

  # Run a local backend for development
  newsdesk dev-server --port 8080
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which every backend call inherits
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "portal backend URL (default from NEWSDESK_API_URL or config)")
	flags.String("home", "", "state directory (default ~/.newsdesk)")
	flags.String("format", "", "output format: text, json or yaml")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("ephemeral", false, "keep the session in memory only")
}
