package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// JSONFormatter formats toasts as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

type jsonToast struct {
	ID         string     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Message    string     `json:"message"`
	Severity   string     `json:"severity"`
	State      string     `json:"state"`
	DurationMs int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

func newJSONToast(e toast.Entry) jsonToast {
	j := jsonToast{
		ID:         e.Handle.String(),
		Title:      e.Title,
		Message:    e.Message,
		Severity:   e.Severity.String(),
		State:      e.State.String(),
		DurationMs: e.Duration.Milliseconds(),
		CreatedAt:  e.CreatedAt,
	}
	if e.Expires() {
		at := e.ExpiresAt()
		j.ExpiresAt = &at
	}
	return j
}

// Format writes toasts as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, toasts []toast.Entry) error {
	out := make([]jsonToast, len(toasts))
	for i, e := range toasts {
		out[i] = newJSONToast(e)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSingle writes a single toast as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, e toast.Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newJSONToast(e))
}
