// Package output provides output formatters for toast lists.
package output

import (
	"io"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// Formatter formats toasts for output.
type Formatter interface {
	// Format writes formatted toasts to the writer.
	Format(w io.Writer, toasts []toast.Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatIDs   FormatType = "ids"
)

// FormatTypes lists the accepted --format values.
func FormatTypes() []FormatType {
	return []FormatType{FormatTable, FormatDmenu, FormatJSON, FormatPlain, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatPlain:
		return NewPlainFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template       string           // Custom template for dmenu/plain format
	ShowIndex      bool             // Show 1-based index prefix
	ShowTime       bool             // Show relative time
	ShowSeverity   bool             // Show severity
	MessageMaxLen  int              // Maximum message length (0 = unlimited)
	Separator      string           // Field separator for dmenu format
	IncludeNewline bool             // Include newlines in message (default: replace with space)
	Now            func() time.Time // Reference time for relative times (default: time.Now)
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:     true,
		ShowTime:      true,
		ShowSeverity:  true,
		MessageMaxLen: 80,
		Separator:     " | ",
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
