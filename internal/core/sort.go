package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/toastd/internal/toast"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreated  SortField = "created"
	SortBySeverity SortField = "severity"
	SortByTitle    SortField = "title"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns the stacking order: oldest first.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByCreated,
		Order: SortAsc,
	}
}

// ParseSortOptions validates user supplied field and order values.
func ParseSortOptions(field, order string) (SortOptions, error) {
	opts := DefaultSortOptions()
	if field != "" {
		switch f := SortField(strings.ToLower(field)); f {
		case SortByCreated, SortBySeverity, SortByTitle:
			opts.Field = f
		default:
			return opts, fmt.Errorf("invalid sort field %q, must be created, severity or title", field)
		}
	}
	if order != "" {
		switch o := SortOrder(strings.ToLower(order)); o {
		case SortAsc, SortDesc:
			opts.Order = o
		default:
			return opts, fmt.Errorf("invalid sort order %q, must be asc or desc", order)
		}
	}
	return opts, nil
}

// severityRank orders severities from most to least urgent.
func severityRank(s toast.Severity) int {
	switch s.Normalize() {
	case toast.SeverityDanger:
		return 0
	case toast.SeverityWarning:
		return 1
	case toast.SeveritySuccess:
		return 2
	default:
		return 3
	}
}

// Sort sorts toasts in place. Ties keep their original order.
func Sort(toasts []toast.Entry, opts SortOptions) {
	slices.SortStableFunc(toasts, func(a, b toast.Entry) int {
		var c int
		switch opts.Field {
		case SortBySeverity:
			c = severityRank(a.Severity) - severityRank(b.Severity)
		case SortByTitle:
			c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}
