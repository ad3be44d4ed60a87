package health

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigChecker verifies the config file parses as YAML.
type ConfigChecker struct {
	path string
}

// NewConfigChecker creates a checker for the config file at path.
func NewConfigChecker(path string) *ConfigChecker {
	return &ConfigChecker{path: path}
}

// Name returns the name of this health check.
func (c *ConfigChecker) Name() string {
	return "config"
}

// Check returns Healthy when the file is absent (defaults apply) or valid,
// Unhealthy when it cannot be read or parsed.
func (c *ConfigChecker) Check(ctx context.Context) *Result {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Healthy("no config file, using defaults").WithDetail("path", c.path)
	}
	if err != nil {
		return Unhealthy("config file cannot be read").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Unhealthy("config file is not valid YAML").
			WithDetail("path", c.path).
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Fix the file or recreate it with 'newsdesk config set'")
	}

	return Healthy("config file is valid").
		WithDetail("path", c.path).
		WithDetail("sections", len(doc))
}
