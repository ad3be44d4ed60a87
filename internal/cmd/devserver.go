package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/devserver"
	"github.com/felixgeelhaar/newsdesk/internal/health"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/version"
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory portal backend for local development",
	Long: `Serve the portal API from memory so newsdesk can be used without the
real backend. Every OTP request is answered with the same code, which is
logged at startup. Data is lost when the server stops.

Seeded accounts (with --seed):
  alice  +15550001  JOURNALIST
  rita   +15550002  REVIEWER
  admin  +15550003  ADMIN

Examples:
  newsdesk dev-server --port 8080
  NEWSDESK_API_URL=http://localhost:8080 newsdesk auth login --phone +15550001 --otp 123456
`,
	RunE: runDevServer,
}

var (
	devPort int
	devSeed bool
	devOTP  string
)

func init() {
	devServerCmd.Flags().IntVar(&devPort, "port", 8080, "port to listen on")
	devServerCmd.Flags().BoolVar(&devSeed, "seed", true, "create demo users and articles")
	devServerCmd.Flags().StringVar(&devOTP, "otp", devserver.DefaultOTP, "the OTP every request receives")

	rootCmd.AddCommand(devServerCmd)
}

func runDevServer(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	logCfg := log.ServerConfig()
	logCfg.Output = log.NewOutput(cmd.ErrOrStderr())
	if cmdCtx.LogLevel != "" {
		logCfg.Level = log.ParseLevel(cmdCtx.LogLevel)
	}
	if cmdCtx.Verbose {
		logCfg.Level = log.LevelDebug
	}
	logger := log.New(logCfg)

	store := devserver.NewStore(devOTP)
	if devSeed {
		store.Seed()
	}

	srv := devserver.NewServer(store, health.NewProbeManager(version.GetInfo().Short()), devserver.Config{
		Address: fmt.Sprintf(":%d", devPort),
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx := commandContext(cmd)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("dev server shutdown: %w", err)
	}
	return nil
}
