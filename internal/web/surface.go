package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/starfederation/datastar-go/datastar"
	g "maragu.dev/gomponents"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// subscriberBuffer is the number of pending patches a slow client may hold
// before it is disconnected and left to reconnect and resync.
const subscriberBuffer = 64

// Patch is one datastar event sent to connected browsers.
type Patch struct {
	Elements string
	Selector string
	Mode     datastar.ElementPatchMode
	Signals  []byte // when set, the patch updates signals instead of elements
}

// Options returns the datastar options for an element patch.
func (p Patch) Options() []datastar.PatchElementOption {
	var opts []datastar.PatchElementOption
	if p.Selector != "" {
		opts = append(opts, datastar.WithSelector(p.Selector))
	}
	if p.Mode != "" {
		opts = append(opts, datastar.WithMode(p.Mode))
	}
	return opts
}

// Surface mirrors the manager's entries for page renders and streams every
// change to subscribed browsers.
type Surface struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	closeLabel string

	attached bool
	entries  []toast.Entry
	subs     map[chan Patch]struct{}
}

// NewSurface creates a web surface. closeLabel is the accessible name of
// each close button.
func NewSurface(closeLabel string, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	if closeLabel == "" {
		closeLabel = "Close"
	}
	return &Surface{
		logger:     logger,
		closeLabel: closeLabel,
		subs:       make(map[chan Patch]struct{}),
	}
}

// Attach appends the empty container to the end of the body.
func (s *Surface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = true
	s.broadcastLocked(Patch{
		Elements: s.render(Container(nil, s.closeLabel)),
		Selector: "body",
		Mode:     datastar.ElementPatchModeAppend,
	})
}

// Append adds a toast at the end of the container.
func (s *Surface) Append(e toast.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	s.broadcastLocked(Patch{
		Elements: s.render(Toast(e, s.closeLabel)),
		Selector: "#" + ContainerID,
		Mode:     datastar.ElementPatchModeAppend,
	})
}

// Update morphs a toast in place, which adds the leaving class.
func (s *Surface) Update(e toast.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.entries, func(x toast.Entry) bool { return x.Handle == e.Handle })
	if i < 0 {
		return
	}
	s.entries[i] = e
	s.broadcastLocked(Patch{
		Elements: s.render(Toast(e, s.closeLabel)),
		Mode:     datastar.ElementPatchModeOuter,
	})
}

// Remove detaches a toast.
func (s *Surface) Remove(h toast.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = slices.DeleteFunc(s.entries, func(e toast.Entry) bool { return e.Handle == h })
	s.broadcastLocked(Patch{
		Selector: "#" + ToastID(h),
		Mode:     datastar.ElementPatchModeRemove,
	})
}

// SetTheme pushes a colour scheme change to every browser.
func (s *Surface) SetTheme(m theme.Mode) {
	signals, err := json.Marshal(map[string]string{"theme": m.OrDefault().String()})
	if err != nil {
		s.logger.Error("failed to encode theme signal", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.broadcastLocked(Patch{Signals: signals})
	s.broadcastLocked(Patch{
		Elements: s.render(ThemeToggle(m)),
		Mode:     datastar.ElementPatchModeOuter,
	})
}

// Snapshot returns whether the container exists and the entries it holds.
func (s *Surface) Snapshot() (bool, []toast.Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attached, slices.Clone(s.entries)
}

// CloseLabel returns the close button label.
func (s *Surface) CloseLabel() string {
	return s.closeLabel
}

// Subscribe registers a browser stream. The first patch resynchronises the
// container. The returned function unsubscribes; the channel is closed when
// the subscriber is dropped or unsubscribed.
func (s *Surface) Subscribe() (<-chan Patch, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Patch, subscriberBuffer)
	if s.attached {
		ch <- Patch{
			Elements: s.render(Container(s.entries, s.closeLabel)),
			Mode:     datastar.ElementPatchModeOuter,
		}
	}
	s.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of connected streams.
func (s *Surface) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Surface) broadcastLocked(p Patch) {
	for ch := range s.subs {
		select {
		case ch <- p:
		default:
			s.logger.Warn("dropping slow toast stream subscriber")
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Surface) render(n g.Node) string {
	html, err := renderNode(n)
	if err != nil {
		s.logger.Error("failed to render toast markup", "error", err)
	}
	return html
}

func renderNode(n g.Node) (string, error) {
	var buf bytes.Buffer
	err := n.Render(&buf)
	return buf.String(), err
}
