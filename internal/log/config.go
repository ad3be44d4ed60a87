package log

import (
	"io"
	"os"
)

// Format represents the output format for logs
type Format int

const (
	// FormatJSON outputs logs in JSON format
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	default:
		return "json"
	}
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) Format {
	switch s {
	case "text", "TEXT", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Output represents where logs should be written
type Output struct {
	writer io.Writer
}

// Writer returns the underlying io.Writer
func (o Output) Writer() io.Writer {
	if o.writer == nil {
		return os.Stderr
	}
	return o.writer
}

// NewOutput creates an Output from an io.Writer
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// OutputStderr creates an Output that writes to stderr
func OutputStderr() Output {
	return Output{writer: os.Stderr}
}

// OutputDiscard creates an Output that drops all log lines
func OutputDiscard() Output {
	return Output{writer: io.Discard}
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs should be written
	Output Output

	// AddSource includes source file and line number in logs
	AddSource bool

	// ServiceName is attached to every record
	ServiceName string
}

// DefaultConfig returns the configuration used by the CLI.
// Stdout is reserved for command output, so logs go to stderr at WARN.
func DefaultConfig() Config {
	return Config{
		Level:       LevelWarn,
		Format:      FormatText,
		Output:      OutputStderr(),
		ServiceName: "newsdesk",
	}
}

// DevelopmentConfig is what --verbose selects: DEBUG, text, with source locations
func DevelopmentConfig() Config {
	return Config{
		Level:       LevelDebug,
		Format:      FormatText,
		Output:      OutputStderr(),
		AddSource:   true,
		ServiceName: "newsdesk",
	}
}

// ServerConfig returns the configuration for the dev server: INFO, JSON, stderr
func ServerConfig() Config {
	return Config{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      OutputStderr(),
		ServiceName: "newsdesk-dev-server",
	}
}
