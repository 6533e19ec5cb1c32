package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// PlainFormatter formats toasts as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.now())).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes toasts as plain text.
func (f *PlainFormatter) Format(w io.Writer, toasts []toast.Entry) error {
	now := f.opts.now()
	for i, e := range toasts {
		if err := f.formatToast(w, i+1, e, now); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatToast(w io.Writer, index int, e toast.Entry, now time.Time) error {
	if f.template != nil {
		data := templateData{
			Index:        index,
			Toast:        e,
			RelativeTime: relativeTime(e.CreatedAt, now),
		}
		return f.template.Execute(w, data)
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	if f.opts.ShowSeverity {
		fmt.Fprintf(&sb, "<%s> ", e.Severity)
	}

	title := e.Title
	if title == "" {
		title = "(untitled)"
	}
	sb.WriteString(title)

	if f.opts.ShowTime {
		fmt.Fprintf(&sb, " (%s)", relativeTime(e.CreatedAt, now))
	}
	sb.WriteString("\n")

	if e.Message != "" {
		msg := e.Message
		if !f.opts.IncludeNewline {
			msg = strings.ReplaceAll(msg, "\n", " ")
		}
		sb.WriteString("    " + truncate(msg, f.opts.MessageMaxLen) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatField outputs a specific field from a toast.
func FormatField(e toast.Entry, field string) string {
	switch strings.ToLower(field) {
	case "id", "handle":
		return e.Handle.String()
	case "title":
		return e.Title
	case "message", "body":
		return e.Message
	case "severity":
		return e.Severity.String()
	case "state":
		return e.State.String()
	case "icon":
		return e.Severity.Icon()
	case "all", "full":
		return fmt.Sprintf("%s\n%s", e.Title, e.Message)
	default:
		return e.Message
	}
}
