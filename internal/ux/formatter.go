package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format and defaults.format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Formatter writes command results in one output format
type Formatter interface {
	Format(data interface{}) error
}

// FormatterOptions configures NewFormatter
type FormatterOptions struct {
	// Writer defaults to os.Stdout
	Writer io.Writer
	// NoColor is passed to TextRenderer values
	NoColor bool
	// Compact drops indentation from JSON
	Compact bool
}

// TextRenderer is implemented by values that print themselves for humans
type TextRenderer interface {
	RenderText(w io.Writer, noColor bool) error
}

// IsStructured reports whether format is machine-readable
func IsStructured(format string) bool {
	return format == FormatJSON || format == FormatYAML
}

// NewFormatter returns the formatter for format. An empty format means text.
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	o := FormatterOptions{Writer: os.Stdout}
	if opts != nil {
		o = *opts
		if o.Writer == nil {
			o.Writer = os.Stdout
		}
	}

	switch format {
	case "", FormatText:
		return textFormatter(o), nil
	case FormatJSON:
		return jsonFormatter(o), nil
	case FormatYAML:
		return yamlFormatter(o), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

type jsonFormatter FormatterOptions

func (f jsonFormatter) Format(data interface{}) error {
	enc := json.NewEncoder(f.Writer)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

type yamlFormatter FormatterOptions

func (f yamlFormatter) Format(data interface{}) error {
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

type textFormatter FormatterOptions

// Format prints a TextRenderer, a string, a fmt.Stringer or an error.
// Anything else has no text form and must be asked for as json or yaml.
func (f textFormatter) Format(data interface{}) error {
	var line string
	switch v := data.(type) {
	case TextRenderer:
		return v.RenderText(f.Writer, f.NoColor)
	case string:
		line = v
	case fmt.Stringer:
		line = v.String()
	case error:
		line = v.Error()
	default:
		return fmt.Errorf("%T has no text form; use --format json or --format yaml", data)
	}
	_, err := fmt.Fprintln(f.Writer, line)
	return err
}
