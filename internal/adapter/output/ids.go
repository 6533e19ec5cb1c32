package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toastd/internal/toast"
)

// IDsFormatter outputs just the handles, one per line.
// Useful for piping to other commands (e.g., toastd dismiss).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes handles to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, toasts []toast.Entry) error {
	for _, e := range toasts {
		if _, err := fmt.Fprintln(w, e.Handle); err != nil {
			return err
		}
	}
	return nil
}
