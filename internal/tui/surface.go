package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastd/internal/toast"
)

type attachMsg struct{}

type appendMsg struct{ entry toast.Entry }

type updateMsg struct{ entry toast.Entry }

type removeMsg struct{ handle toast.Handle }

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Surface implements toast.Surface by forwarding every call to the Bubble
// Tea event loop. Calls made before a program is bound are dropped.
type Surface struct {
	mu     sync.RWMutex
	sender Sender
}

// NewSurface creates an unbound surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Bind routes surface calls to p.
func (s *Surface) Bind(p Sender) {
	s.mu.Lock()
	s.sender = p
	s.mu.Unlock()
}

func (s *Surface) send(msg tea.Msg) {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()
	if sender != nil {
		sender.Send(msg)
	}
}

// Attach implements toast.Surface.
func (s *Surface) Attach() { s.send(attachMsg{}) }

// Append implements toast.Surface.
func (s *Surface) Append(e toast.Entry) { s.send(appendMsg{entry: e}) }

// Update implements toast.Surface.
func (s *Surface) Update(e toast.Entry) { s.send(updateMsg{entry: e}) }

// Remove implements toast.Surface.
func (s *Surface) Remove(h toast.Handle) { s.send(removeMsg{handle: h}) }
