package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// DmenuFormatter formats toasts for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs(opts.now())).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes toasts in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, toasts []toast.Entry) error {
	now := f.opts.now()
	for i, e := range toasts {
		line := f.formatLine(i+1, e, now)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, e toast.Entry, now time.Time) string {
	if f.template != nil {
		var buf strings.Builder
		data := templateData{
			Index:        index,
			Toast:        e,
			RelativeTime: relativeTime(e.CreatedAt, now),
		}
		if err := f.template.Execute(&buf, data); err == nil {
			return buf.String()
		}
	}

	// Default format: [index] [time] [severity] title: message
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	if f.opts.ShowTime {
		parts = append(parts, relativeTime(e.CreatedAt, now))
	}
	if f.opts.ShowSeverity {
		parts = append(parts, e.Severity.String())
	}

	content := sanitizeMessage(e.Message, f.opts.MessageMaxLen, f.opts.IncludeNewline)
	if e.HasTitle() {
		content = e.Title + ": " + content
	}
	parts = append(parts, content)

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Toast        toast.Entry
	RelativeTime string
}

// templateFuncs returns template helper functions.
func templateFuncs(now time.Time) template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"reltime": func(t time.Time) string {
			return relativeTime(t, now)
		},
		"severityIcon": func(s toast.Severity) string {
			switch s.Normalize() {
			case toast.SeveritySuccess:
				return "+"
			case toast.SeverityDanger:
				return "!"
			case toast.SeverityWarning:
				return "~"
			default:
				return "-"
			}
		},
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// relativeTime returns a compact age such as "now", "4m" or "2h".
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}
}

// sanitizeMessage cleans up message text for single-line display.
func sanitizeMessage(msg string, maxLen int, includeNewline bool) string {
	if !includeNewline {
		msg = strings.ReplaceAll(msg, "\n", " ")
		msg = strings.ReplaceAll(msg, "\r", "")
	}

	for strings.Contains(msg, "  ") {
		msg = strings.ReplaceAll(msg, "  ", " ")
	}

	return truncate(strings.TrimSpace(msg), maxLen)
}
