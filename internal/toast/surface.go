package toast

// Surface is the visual container a Manager renders into.
//
// The manager calls a surface while holding its own lock, so calls arrive in
// the exact order mutations happened. Implementations must not call back into
// the manager synchronously; hand work off to an event loop or channel instead.
type Surface interface {
	// Attach creates the container. It is called once, before the first Append.
	Attach()
	// Append adds a new entry after every existing one.
	Append(e Entry)
	// Update reflects a state change of an entry already on the surface.
	Update(e Entry)
	// Remove detaches an entry.
	Remove(h Handle)
}

// NopSurface discards everything. It is useful when only observers matter.
type NopSurface struct{}

func (NopSurface) Attach()       {}
func (NopSurface) Append(Entry)  {}
func (NopSurface) Update(Entry)  {}
func (NopSurface) Remove(Handle) {}

// MultiSurface fans every call out to several surfaces in order.
type MultiSurface []Surface

func (m MultiSurface) Attach() {
	for _, s := range m {
		s.Attach()
	}
}

func (m MultiSurface) Append(e Entry) {
	for _, s := range m {
		s.Append(e)
	}
}

func (m MultiSurface) Update(e Entry) {
	for _, s := range m {
		s.Update(e)
	}
}

func (m MultiSurface) Remove(h Handle) {
	for _, s := range m {
		s.Remove(h)
	}
}
