// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Wesley3141/tessero/internal/recommend"
)

// dateLayout is the wire format for date filters and event dates.
const dateLayout = "2006-01-02"

// parseFilters extracts the recognized filter options from query
// parameters. Malformed values fail with an InvalidFilterError before
// any engine work. A request with no filter options returns nil.
func parseFilters(q url.Values) (*recommend.Filters, error) {
	f := &recommend.Filters{}
	hasFilter := false

	if raw := q.Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Categories = append(f.Categories, c)
			}
		}
		hasFilter = len(f.Categories) > 0
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &recommend.InvalidFilterError{Field: "min_price", Reason: "not a number"}
		}
		f.MinPrice = &v
		hasFilter = true
	}

	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &recommend.InvalidFilterError{Field: "max_price", Reason: "not a number"}
		}
		f.MaxPrice = &v
		hasFilter = true
	}

	if raw := q.Get("location"); raw != "" {
		f.Location = raw
		hasFilter = true
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, &recommend.InvalidFilterError{Field: "start_date", Reason: "not a YYYY-MM-DD date"}
		}
		f.StartDate = &t
		hasFilter = true
	}

	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, &recommend.InvalidFilterError{Field: "end_date", Reason: "not a YYYY-MM-DD date"}
		}
		f.EndDate = &t
		hasFilter = true
	}

	if !hasFilter {
		return nil, nil
	}
	return f, nil
}

// parseCount parses a positive count parameter, returning 0 (engine
// default) when absent and an error when malformed or non-positive.
func parseCount(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &recommend.InvalidFilterError{Field: key, Reason: "must be a positive integer"}
	}
	return n, nil
}
