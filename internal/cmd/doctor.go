package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/health"
	"github.com/felixgeelhaar/newsdesk/internal/ux"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostics and health checks",
	Long: `Check that newsdesk is set up to talk to the portal.

Checks include:
  • Backend reachability (public article listing)
  • Backend API contract (embedded OpenAPI document)
  • Session file presence and permissions
  • Configuration file syntax

Examples:
  # Run diagnostics with colored output
  newsdesk doctor

  # Output as JSON for CI/CD
  newsdesk doctor --format json
`,
	RunE: runDoctor,
}

var doctorTimeout time.Duration

func init() {
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 5*time.Second, "timeout per check")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	manager := health.NewManager().WithTimeout(doctorTimeout)

	a, err := buildApp(cmd)
	if err != nil {
		// Without a usable configuration only the config check can run.
		configPath, pathErr := getConfigPath(cmd)
		if pathErr != nil {
			return err
		}
		manager.AddChecker(health.NewConfigChecker(configPath))
		out, fmtErr := ux.NewFormatter("text", &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
		if fmtErr == nil {
			_ = out.Format(manager.Report(ctx))
		}
		return err
	}

	manager.AddChecker(health.NewConfigChecker(a.paths.ConfigFile()))
	manager.AddChecker(health.NewTokenStoreChecker(a.store, a.storePath))
	manager.AddChecker(health.NewBackendChecker(a.api, a.baseURL))
	manager.AddChecker(health.NewContractChecker(a.baseURL))

	a.logger.Debug("running health checks", "checks", manager.CheckNames())
	report := manager.Report(ctx)
	if err := a.print(report); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("health checks failed: overall status %s", report.Status)
	}
	return nil
}
