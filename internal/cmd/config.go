package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/ux"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
)

// APIURLEnv overrides api.base_url
const APIURLEnv = "NEWSDESK_API_URL"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit newsdesk configuration",
	Long: `Manage newsdesk configuration stored at ~/.newsdesk/config.yaml

Configuration includes:
  • Backend URL, request timeout and contract validation
  • Default output format
  • Log level
  • Session file location and home page tags

Examples:
  # View current configuration
  newsdesk config view

  # Get a specific value
  newsdesk config get api.base_url

  # Set a specific value
  newsdesk config set api.request_timeout 15s

  # Show configuration file path
  newsdesk config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display current configuration",
	Long:  `Display the current newsdesk configuration in the specified format.`,
	RunE:  runConfigView,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  `Retrieve the value of a specific configuration key using dot notation (e.g., api.base_url).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific configuration value",
	Long:  `Set the value of a specific configuration key using dot notation (e.g., logging.level debug).`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// GlobalConfig represents the newsdesk configuration file
type GlobalConfig struct {
	API      APIConfig       `yaml:"api" json:"api"`
	Defaults CommandDefaults `yaml:"defaults,omitempty" json:"defaults"`
	Logging  LoggingConfig   `yaml:"logging,omitempty" json:"logging"`
	Session  SessionConfig   `yaml:"session,omitempty" json:"session"`
	Feed     FeedConfig      `yaml:"feed,omitempty" json:"feed"`
}

type APIConfig struct {
	BaseURL          string `yaml:"base_url,omitempty" json:"base_url"`
	RequestTimeout   string `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"` // e.g. "30s"; empty means none
	ValidateRequests bool   `yaml:"validate_requests,omitempty" json:"validate_requests"`
}

type CommandDefaults struct {
	Format  string `yaml:"format,omitempty" json:"format"` // "text", "json", "yaml"
	NoColor bool   `yaml:"no_color,omitempty" json:"no_color"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty" json:"format"` // "text", "json"
}

type SessionConfig struct {
	File string `yaml:"file,omitempty" json:"file,omitempty"` // default ~/.newsdesk/session.json
}

type FeedConfig struct {
	PopularTags []string `yaml:"popular_tags,omitempty" json:"popular_tags"`
}

// Timeout parses api.request_timeout. An empty value means no timeout.
func (c APIConfig) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.request_timeout %q: %w", c.RequestTimeout, err)
	}
	return d, nil
}

// getConfigPath returns the path to the configuration file for this invocation
func getConfigPath(cmd *cobra.Command) (string, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to create command context: %w", err)
	}
	return ux.NewPathDefaults(cmdCtx.Home).ConfigFile(), nil
}

// loadConfig loads the configuration at path. A missing file yields the defaults.
func loadConfig(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultGlobalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := defaultGlobalConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, nerrors.NewFileUnmarshalError(path, "YAML", err)
	}

	return config, nil
}

// saveConfig saves the configuration to the file
func saveConfig(config *GlobalConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// defaultGlobalConfig returns the default configuration
func defaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		API: APIConfig{
			BaseURL: client.DefaultBaseURL,
		},
		Defaults: CommandDefaults{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Feed: FeedConfig{
			PopularTags: append([]string(nil), newsroom.DefaultPopularTags...),
		},
	}
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	configPath, err := getConfigPath(cmd)
	if err != nil {
		return err
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	// Use formatter for JSON/YAML output
	if ux.IsStructured(cmdCtx.Format) {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{
			Writer:  cmd.OutOrStdout(),
			NoColor: cmdCtx.NoColor,
		})
		if err != nil {
			return err
		}
		return formatter.Format(config)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)
	fmt.Fprintln(out, string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	configPath, err := getConfigPath(cmd)
	if err != nil {
		return err
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	value, err := getNestedValue(config, key)
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath, err := getConfigPath(cmd)
	if err != nil {
		return err
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	if err := setNestedValue(config, key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	if err := saveConfig(config, configPath); err != nil {
		return ux.FormatError(err, "saving configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)
	return nil
}

// getNestedValue retrieves a value from the config using dot notation
func getNestedValue(config *GlobalConfig, key string) (string, error) {
	switch key {
	case "api.base_url":
		return config.API.BaseURL, nil
	case "api.request_timeout":
		return config.API.RequestTimeout, nil
	case "api.validate_requests":
		return strconv.FormatBool(config.API.ValidateRequests), nil
	case "defaults.format":
		return config.Defaults.Format, nil
	case "defaults.no_color":
		return strconv.FormatBool(config.Defaults.NoColor), nil
	case "logging.level":
		return config.Logging.Level, nil
	case "logging.format":
		return config.Logging.Format, nil
	case "session.file":
		return config.Session.File, nil
	case "feed.popular_tags":
		return strings.Join(config.Feed.PopularTags, ","), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setNestedValue sets a value in the config using dot notation
func setNestedValue(config *GlobalConfig, key, value string) error {
	switch key {
	case "api.base_url":
		config.API.BaseURL = strings.TrimRight(value, "/")
	case "api.request_timeout":
		probe := APIConfig{RequestTimeout: value}
		if _, err := probe.Timeout(); err != nil {
			return err
		}
		config.API.RequestTimeout = value
	case "api.validate_requests":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		config.API.ValidateRequests = b
	case "defaults.format":
		if value != ux.FormatText && !ux.IsStructured(value) {
			return fmt.Errorf("invalid format %q (supported: %s)", value, strings.Join(ux.Formats, ", "))
		}
		config.Defaults.Format = value
	case "defaults.no_color":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		config.Defaults.NoColor = b
	case "logging.level":
		var level log.Level
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return err
		}
		text, _ := level.MarshalText()
		config.Logging.Level = string(text)
	case "logging.format":
		if value != "text" && value != "json" {
			return fmt.Errorf("invalid log format %q (supported: text, json)", value)
		}
		config.Logging.Format = value
	case "session.file":
		config.Session.File = value
	case "feed.popular_tags":
		var tags []string
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		config.Feed.PopularTags = tags
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", value)
	}
	return b, nil
}
