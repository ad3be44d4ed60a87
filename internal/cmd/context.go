package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the persistent flags of one invocation.
// Commands read it instead of package-level flag variables.
type CommandContext struct {
	// Output control
	Verbose bool
	Format  string
	NoColor bool

	// Backend and state
	APIURL    string
	Home      string
	LogLevel  string
	Ephemeral bool
}

// NewCommandContext extracts command context from cobra.Command flags.
// Commands call this in their RunE function:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		ctx, err := NewCommandContext(cmd)
//		if err != nil {
//			return fmt.Errorf("failed to create command context: %w", err)
//		}
//		// Use ctx.Verbose, ctx.Format, etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	home, err := cmd.Flags().GetString("home")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	ephemeral, err := cmd.Flags().GetBool("ephemeral")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:   verbose,
		Format:    format,
		NoColor:   noColor,
		APIURL:    apiURL,
		Home:      home,
		LogLevel:  logLevel,
		Ephemeral: ephemeral,
	}, nil
}
