package ux

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the newsdesk state directory
const HomeEnv = "NEWSDESK_HOME"

// PathDefaults provides defaults for the files newsdesk keeps on disk
type PathDefaults struct {
	HomeDir string
}

// NewPathDefaults resolves the state directory from the flag value, then
// NEWSDESK_HOME, then ~/.newsdesk.
func NewPathDefaults(flagHome string) *PathDefaults {
	home := flagHome
	if home == "" {
		home = os.Getenv(HomeEnv)
	}
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".newsdesk")
		} else {
			home = ".newsdesk"
		}
	}
	return &PathDefaults{HomeDir: home}
}

// ConfigFile returns the path to config.yaml
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.HomeDir, "config.yaml")
}

// SessionFile returns the default path to the persisted session
func (pd *PathDefaults) SessionFile() string {
	return filepath.Join(pd.HomeDir, "session.json")
}

