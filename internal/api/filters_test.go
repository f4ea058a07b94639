// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package api

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/Wesley3141/tessero/internal/recommend"
)

func TestParseFilters(t *testing.T) {
	t.Run("no filter params", func(t *testing.T) {
		f, err := parseFilters(url.Values{})
		if err != nil {
			t.Fatalf("parseFilters() error = %v", err)
		}
		if f != nil {
			t.Errorf("parseFilters() = %+v, want nil", f)
		}
	})

	t.Run("full filter set", func(t *testing.T) {
		q := url.Values{}
		q.Set("categories", "music, sports ,")
		q.Set("min_price", "10.5")
		q.Set("max_price", "99")
		q.Set("location", "NYC")
		q.Set("start_date", "2026-09-01")
		q.Set("end_date", "2026-09-30")

		f, err := parseFilters(q)
		if err != nil {
			t.Fatalf("parseFilters() error = %v", err)
		}
		if !reflect.DeepEqual(f.Categories, []string{"music", "sports"}) {
			t.Errorf("Categories = %v", f.Categories)
		}
		if f.MinPrice == nil || *f.MinPrice != 10.5 {
			t.Errorf("MinPrice = %v", f.MinPrice)
		}
		if f.MaxPrice == nil || *f.MaxPrice != 99 {
			t.Errorf("MaxPrice = %v", f.MaxPrice)
		}
		if f.Location != "NYC" {
			t.Errorf("Location = %q", f.Location)
		}
		if f.StartDate == nil || f.StartDate.Format(dateLayout) != "2026-09-01" {
			t.Errorf("StartDate = %v", f.StartDate)
		}
		if f.EndDate == nil || f.EndDate.Format(dateLayout) != "2026-09-30" {
			t.Errorf("EndDate = %v", f.EndDate)
		}
	})

	malformed := []struct {
		name string
		key  string
		val  string
	}{
		{name: "min_price not a number", key: "min_price", val: "cheap"},
		{name: "max_price not a number", key: "max_price", val: "1e"},
		{name: "start_date wrong layout", key: "start_date", val: "09/01/2026"},
		{name: "end_date wrong layout", key: "end_date", val: "tomorrow"},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set(tt.key, tt.val)
			if _, err := parseFilters(q); !recommend.IsInvalidFilter(err) {
				t.Errorf("parseFilters() error = %v, want InvalidFilterError", err)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "absent defers to engine default", raw: "", want: 0},
		{name: "valid", raw: "25", want: 25},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-3", wantErr: true},
		{name: "not a number", raw: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.raw != "" {
				q.Set("count", tt.raw)
			}
			got, err := parseCount(q, "count")
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
