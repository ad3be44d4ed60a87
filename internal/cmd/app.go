package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/authz"
	"github.com/felixgeelhaar/newsdesk/internal/contract"
	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
	"github.com/felixgeelhaar/newsdesk/internal/ux"
	"github.com/felixgeelhaar/newsdesk/internal/version"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
)

// app is what one command invocation works with: resolved configuration,
// the token store, the backend client and a restored session.
type app struct {
	cmdCtx    *CommandContext
	paths     *ux.PathDefaults
	config    *GlobalConfig
	logger    *log.Logger
	out       ux.Formatter
	stdout    io.Writer
	noColor   bool
	baseURL   string
	storePath string
	store     *tokenstore.Store
	api       *client.Client
	session   *session.Manager
	router    *authz.Router
	lastNav   string
}

// newApp builds the collaborators for cmd and restores the session from storage
func newApp(cmd *cobra.Command) (*app, error) {
	a, err := buildApp(cmd)
	if err != nil {
		return nil, err
	}
	if err := a.session.Init(commandContext(cmd)); err != nil {
		return nil, err
	}
	return a, nil
}

// newReaderApp is newApp for commands that work without a session. When the
// stored session cannot be read it warns and continues anonymously.
func newReaderApp(cmd *cobra.Command) (*app, error) {
	a, err := buildApp(cmd)
	if err != nil {
		return nil, err
	}
	ctx := commandContext(cmd)
	if err := a.session.Init(ctx); err != nil {
		if !isStoreError(err) {
			return nil, err
		}
		a.logger.WithError(err).WarnContext(ctx, "stored session is unreadable, continuing anonymously",
			"session_file", a.storePath)
		a.session.StartAnonymous(ctx)
	}
	return a, nil
}

// isStoreError reports whether err came from reading or decoding the session store
func isStoreError(err error) bool {
	return strings.HasPrefix(string(nerrors.CodeOf(err)), "STORE-")
}

// buildApp wires the collaborators without touching storage
func buildApp(cmd *cobra.Command) (*app, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}

	paths := ux.NewPathDefaults(cmdCtx.Home)
	config, err := loadConfig(paths.ConfigFile())
	if err != nil {
		return nil, ux.FormatError(err, "loading configuration")
	}

	a := &app{
		cmdCtx: cmdCtx,
		paths:  paths,
		config: config,
		stdout: cmd.OutOrStdout(),
	}

	a.logger = newLogger(cmdCtx, config, cmd.ErrOrStderr())
	log.SetDefaultLogger(a.logger)

	format := cmdCtx.Format
	if format == "" {
		format = config.Defaults.Format
	}
	a.noColor = cmdCtx.NoColor || config.Defaults.NoColor
	a.out, err = ux.NewFormatter(format, &ux.FormatterOptions{Writer: a.stdout, NoColor: a.noColor})
	if err != nil {
		return nil, err
	}

	a.baseURL = resolveBaseURL(cmdCtx, config)

	backend, storePath, err := newBackend(cmdCtx, config, paths)
	if err != nil {
		return nil, err
	}
	a.storePath = storePath
	a.store = tokenstore.New(backend, a.logger)

	ctx := commandContext(cmd)
	a.api, err = newClient(ctx, config, a.baseURL, a.store, a.logger)
	if err != nil {
		return nil, err
	}

	nav := session.NavigatorFunc(func(path string) {
		a.lastNav = path
		a.logger.Debug("navigate", "path", path)
	})
	a.session = session.NewManager(a.api, a.store, nav, a.logger)
	a.router = authz.NewRouter(a.logger)

	return a, nil
}

func newLogger(cmdCtx *CommandContext, config *GlobalConfig, w io.Writer) *log.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Output = log.NewOutput(w)

	level := cmdCtx.LogLevel
	if level == "" {
		level = config.Logging.Level
	}
	if level != "" {
		logCfg.Level = log.ParseLevel(level)
	}
	if config.Logging.Format != "" {
		logCfg.Format = log.ParseFormat(config.Logging.Format)
	}
	if cmdCtx.Verbose {
		logCfg = log.DevelopmentConfig()
		logCfg.Output = log.NewOutput(w)
	}
	return log.New(logCfg)
}

// resolveBaseURL picks the backend URL: flag, then NEWSDESK_API_URL, then config
func resolveBaseURL(cmdCtx *CommandContext, config *GlobalConfig) string {
	url := cmdCtx.APIURL
	if url == "" {
		url = os.Getenv(APIURLEnv)
	}
	if url == "" {
		url = config.API.BaseURL
	}
	if url == "" {
		url = client.DefaultBaseURL
	}
	return strings.TrimRight(url, "/")
}

// newBackend returns the session backend and the file it persists to ("" for memory)
func newBackend(cmdCtx *CommandContext, config *GlobalConfig, paths *ux.PathDefaults) (tokenstore.Backend, string, error) {
	var backend tokenstore.Backend
	path := ""
	if cmdCtx.Ephemeral {
		backend = tokenstore.NewMemoryBackend()
	} else {
		path = config.Session.File
		if path == "" {
			path = paths.SessionFile()
		}
		backend = tokenstore.NewFileBackend(path)
	}

	if passphrase := os.Getenv(tokenstore.PassphraseEnv); passphrase != "" {
		sealed, err := tokenstore.NewSealedBackend(backend, passphrase)
		if err != nil {
			return nil, "", err
		}
		backend = sealed
	}
	return backend, path, nil
}

func newClient(ctx context.Context, config *GlobalConfig, baseURL string, tokens client.TokenSource, logger *log.Logger) (*client.Client, error) {
	timeout, err := config.API.Timeout()
	if err != nil {
		return nil, err
	}

	cfg := &client.Config{
		Timeout:   timeout,
		UserAgent: version.GetInfo().UserAgent(),
		Logger:    logger.Slog(),
	}
	if config.API.ValidateRequests {
		transport, err := contract.NewTransport(ctx, baseURL, nil)
		if err != nil {
			return nil, nerrors.Wrap(nerrors.ErrCodeAPIContract, "failed to load the API contract", err)
		}
		cfg.Transport = transport
	}

	return client.NewWithConfig(baseURL, tokens, cfg), nil
}

// commandContext returns the context cobra was executed with
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// print writes v in the selected output format
func (a *app) print(v interface{}) error {
	return a.out.Format(v)
}

// textOnly reports whether plain status lines should be printed
func (a *app) textOnly() bool {
	f := a.cmdCtx.Format
	if f == "" {
		f = a.config.Defaults.Format
	}
	return f == "" || f == "text"
}

// require runs the route guard for path against the current session
func (a *app) require(path string) error {
	res := a.router.Navigate(a.session.Snapshot(), path)
	if res.Decision.Allowed {
		return nil
	}
	if !a.session.Snapshot().Authenticated {
		return nerrors.NewNotLoggedInError()
	}
	return nerrors.NewForbiddenError(res.Path).
		WithSuggestion(res.Decision.Reason)
}
