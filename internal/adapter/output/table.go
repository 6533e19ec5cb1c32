package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastd/internal/toast"
)

// TableFormatter prints aligned columns with humanized times.
type TableFormatter struct {
	opts FormatterOptions
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(opts FormatterOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Format writes a header row and one row per toast.
func (f *TableFormatter) Format(w io.Writer, toasts []toast.Entry) error {
	if len(toasts) == 0 {
		_, err := fmt.Fprintln(w, "No toasts")
		return err
	}

	now := f.opts.now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tSTATE\tCREATED\tEXPIRES\tTITLE\tMESSAGE")
	for _, e := range toasts {
		expires := "never"
		if e.Expires() {
			expires = humanize.RelTime(e.ExpiresAt(), now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Handle,
			e.Severity,
			e.State,
			humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
			expires,
			e.Title,
			sanitizeMessage(e.Message, f.opts.MessageMaxLen, false),
		)
	}
	return tw.Flush()
}
