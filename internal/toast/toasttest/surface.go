package toasttest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jmylchreest/toastd/internal/toast"
)

// Surface is a toast.Surface that records every call and mirrors the
// resulting child list.
type Surface struct {
	mu       sync.Mutex
	attached int
	calls    []string
	children []toast.Entry
}

// NewSurface returns an empty recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached++
	s.calls = append(s.calls, "attach")
}

func (s *Surface) Append(e toast.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, e)
	s.calls = append(s.calls, "append "+e.Handle.String())
}

func (s *Surface) Update(e toast.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.children {
		if s.children[i].Handle == e.Handle {
			s.children[i] = e
		}
	}
	s.calls = append(s.calls, fmt.Sprintf("update %s %s", e.Handle, e.State))
}

func (s *Surface) Remove(h toast.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = slices.DeleteFunc(s.children, func(e toast.Entry) bool { return e.Handle == h })
	s.calls = append(s.calls, "remove "+h.String())
}

// Attached returns how many times Attach was called.
func (s *Surface) Attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Calls returns the recorded calls, e.g. "append <handle>" or "update <handle> leaving".
func (s *Surface) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Children returns the entries currently attached, in surface order.
func (s *Surface) Children() []toast.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.children)
}

// Child returns the attached entry for h.
func (s *Surface) Child(h toast.Handle) (toast.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.children {
		if e.Handle == h {
			return e, true
		}
	}
	return toast.Entry{}, false
}
