// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"strings"
	"time"
)

// Filters constrains the candidate event set. All recognized options
// compose with logical AND; a nil *Filters matches every event.
type Filters struct {
	// Categories keeps events sharing at least one category with the
	// given set. Matching is case-insensitive.
	Categories []string

	// MinPrice and MaxPrice keep events with price within the inclusive
	// bound(s). Either may be given alone.
	MinPrice *float64
	MaxPrice *float64

	// Location keeps events whose normalized location matches.
	Location string

	// StartDate and EndDate keep events with date within the inclusive
	// window. Either may be given alone.
	StartDate *time.Time
	EndDate   *time.Time
}

// Validate checks filter values for consistency. It returns an
// InvalidFilterError before any scoring work is done.
func (f *Filters) Validate() error {
	if f == nil {
		return nil
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return &InvalidFilterError{Field: "min_price", Reason: "must be non-negative"}
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return &InvalidFilterError{Field: "max_price", Reason: "must be non-negative"}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return &InvalidFilterError{Field: "min_price", Reason: "greater than max_price"}
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return &InvalidFilterError{Field: "start_date", Reason: "after end_date"}
	}
	return nil
}

// Matches reports whether an event passes all filter constraints.
func (f *Filters) Matches(ev *Event) bool {
	if f == nil {
		return true
	}

	if len(f.Categories) > 0 && !matchesCategory(f.Categories, ev.Categories) {
		return false
	}

	if f.MinPrice != nil && ev.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && ev.Price > *f.MaxPrice {
		return false
	}

	if f.Location != "" && normalizeLocation(f.Location) != normalizeLocation(ev.Location) {
		return false
	}

	if f.StartDate != nil && ev.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && ev.Date.After(*f.EndDate) {
		return false
	}

	return true
}

// matchesCategory reports whether any event category appears in the
// filter set.
func matchesCategory(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}

// normalizeLocation normalizes a location for comparison.
func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
