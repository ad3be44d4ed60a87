package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is the minimum severity a logger emits
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// String returns the upper-case level name, or UNKNOWN
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return strings.ToUpper(name)
	}
	return "UNKNOWN"
}

// ToSlogLevel maps l onto slog. Unknown levels map to info.
func (l Level) ToSlogLevel() slog.Level {
	if sl, ok := slogLevels[l]; ok {
		return sl
	}
	return slog.LevelInfo
}

// LookupLevel resolves a level name as written in the config file or
// the --log-level flag. "warning" is accepted for warn.
func LookupLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn, true
	}
	for l, name := range levelNames {
		if name == s {
			return l, true
		}
	}
	return LevelInfo, false
}

// ParseLevel is LookupLevel with unknown names mapped to info
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// UnmarshalText lets a Level be decoded straight from YAML or JSON
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := LookupLevel(string(text))
	if !ok {
		return fmt.Errorf("invalid log level %q (supported: debug, info, warn, error)", text)
	}
	*l = parsed
	return nil
}

// MarshalText writes the lower-case name used in config files
func (l Level) MarshalText() ([]byte, error) {
	name, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("invalid log level %d", int(l))
	}
	return []byte(name), nil
}
