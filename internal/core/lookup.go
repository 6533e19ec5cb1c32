package core

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/toastd/internal/toast"
)

// LookupByID finds a toast by its handle.
func LookupByID(toasts []toast.Entry, id string) (toast.Entry, bool) {
	for _, e := range toasts {
		if e.Handle.String() == id {
			return e, true
		}
	}
	return toast.Entry{}, false
}

// LookupByIndex finds a toast by its 1-based index.
func LookupByIndex(toasts []toast.Entry, index int) (toast.Entry, bool) {
	idx := index - 1
	if idx < 0 || idx >= len(toasts) {
		return toast.Entry{}, false
	}
	return toasts[idx], true
}

// Lookup resolves ref as a 1-based index when numeric, else as a handle.
func Lookup(toasts []toast.Entry, ref string) (toast.Entry, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		return LookupByIndex(toasts, n)
	}
	return LookupByID(toasts, ref)
}

// Search returns toasts whose title or message contains term, ignoring case.
func Search(toasts []toast.Entry, term string) []toast.Entry {
	if term == "" {
		return toasts
	}

	term = strings.ToLower(term)
	var result []toast.Entry
	for _, e := range toasts {
		if strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Message), term) {
			result = append(result, e)
		}
	}
	return result
}
