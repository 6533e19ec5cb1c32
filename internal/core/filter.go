// Package core provides filtering, sorting, and lookup logic for toast lists.
package core

import (
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// FilterOptions specifies criteria for filtering toasts.
type FilterOptions struct {
	Since      time.Duration    // Only toasts newer than now-since (0=all)
	Severity   *toast.Severity  // Filter by severity (nil=any)
	ActiveOnly bool             // Skip toasts that are already leaving
	Limit      int              // Maximum results (0=unlimited)
	Now        func() time.Time // Reference time for Since (default: time.Now)
}

// Filter returns the toasts matching opts, keeping their order.
func Filter(toasts []toast.Entry, opts FilterOptions) []toast.Entry {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cutoff := now().Add(-opts.Since)

	result := make([]toast.Entry, 0, len(toasts))
	for _, e := range toasts {
		if opts.Since > 0 && e.CreatedAt.Before(cutoff) {
			continue
		}
		if opts.Severity != nil && e.Severity != *opts.Severity {
			continue
		}
		if opts.ActiveOnly && !e.State.Active() {
			continue
		}

		result = append(result, e)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}

	return result
}
