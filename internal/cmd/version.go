package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/ux"
	"github.com/felixgeelhaar/newsdesk/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
	RunE: runVersion,
}

var versionLong bool

func init() {
	versionCmd.Flags().BoolVar(&versionLong, "long", false, "show detailed version information")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	info := version.GetInfo()
	out := cmd.OutOrStdout()

	if ux.IsStructured(cmdCtx.Format) {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{Writer: out})
		if err != nil {
			return err
		}
		return formatter.Format(info)
	}

	if versionLong {
		fmt.Fprintln(out, info.String())
		return nil
	}

	// Default output (short version only)
	fmt.Fprintf(out, "newsdesk %s\n", info.Short())
	return nil
}
