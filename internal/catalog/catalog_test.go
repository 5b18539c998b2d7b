// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"sort"
	"testing"
)

func TestGet(t *testing.T) {
	g, ok := Get(1)
	if !ok || g.Title == "" {
		t.Fatalf("Get(1) = %v %v", g, ok)
	}
	if _, ok := Get(9999); ok {
		t.Error("Get(9999) should miss")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Title = "mutated"
	if All()[0].Title == "mutated" {
		t.Error("All must not expose the backing array")
	}
}

func TestSelectByQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		check  func(t *testing.T, got []Game)
	}{
		{
			name:   "empty filter matches everything",
			filter: Filter{},
			check: func(t *testing.T, got []Game) {
				if len(got) != len(All()) {
					t.Errorf("got %d games", len(got))
				}
			},
		},
		{
			name:   "query matches title case-insensitively",
			filter: Filter{Query: "cyber"},
			check: func(t *testing.T, got []Game) {
				if len(got) == 0 {
					t.Fatal("no matches")
				}
				for _, g := range got {
					if !matchesQuery(g, "cyber") {
						t.Errorf("%s does not match", g.Title)
					}
				}
			},
		},
		{
			name:   "query matches tags",
			filter: Filter{Query: "rpg"},
			check: func(t *testing.T, got []Game) {
				if len(got) == 0 {
					t.Error("expected tag matches")
				}
			},
		},
		{
			name:   "category filter",
			filter: Filter{Category: "Racing"},
			check: func(t *testing.T, got []Game) {
				for _, g := range got {
					if g.Category != "Racing" {
						t.Errorf("%s is %s", g.Title, g.Category)
					}
				}
			},
		},
		{
			name:   "free only",
			filter: Filter{Price: FreeOnly},
			check: func(t *testing.T, got []Game) {
				if len(got) == 0 {
					t.Fatal("catalog has a free game")
				}
				for _, g := range got {
					if !g.Free() {
						t.Errorf("%s costs %v", g.Title, g.Price)
					}
				}
			},
		},
		{
			name:   "no match",
			filter: Filter{Query: "zzzz-no-such-game"},
			check: func(t *testing.T, got []Game) {
				if len(got) != 0 {
					t.Errorf("got %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Select(tt.filter))
		})
	}
}

func TestPriceRangeBuckets(t *testing.T) {
	tests := []struct {
		r     PriceRange
		price float64
		want  bool
	}{
		{FreeOnly, 0, true},
		{FreeOnly, 0.01, false},
		{Under20, 19.99, true},
		{Under20, 20, false},
		{From20To40, 20, true},
		{From20To40, 40, true},
		{From20To40, 40.01, false},
		{Over40, 59.99, true},
		{Over40, 40, false},
		{AnyPrice, 123, true},
	}
	for _, tt := range tests {
		if got := tt.r.matches(tt.price); got != tt.want {
			t.Errorf("%s.matches(%v) = %v, want %v", tt.r, tt.price, got, tt.want)
		}
	}
}

func TestSortBy(t *testing.T) {
	gs := All()

	SortBy(gs, SortTitle)
	if !sort.SliceIsSorted(gs, func(i, j int) bool { return gs[i].Title < gs[j].Title }) {
		t.Error("not sorted by title")
	}

	SortBy(gs, SortPriceAsc)
	if !sort.SliceIsSorted(gs, func(i, j int) bool { return gs[i].Price < gs[j].Price }) {
		t.Error("not sorted by ascending price")
	}

	SortBy(gs, SortRating)
	if !sort.SliceIsSorted(gs, func(i, j int) bool { return gs[i].Rating > gs[j].Rating }) {
		t.Error("not sorted by rating descending")
	}
}

func TestFeatured(t *testing.T) {
	top := Featured(3)
	if len(top) != 3 {
		t.Fatalf("Featured(3) returned %d", len(top))
	}
	if top[0].Rating < top[1].Rating || top[1].Rating < top[2].Rating {
		t.Errorf("not rating-ordered: %v", top)
	}
	if got := Featured(1000); len(got) != len(All()) {
		t.Errorf("oversized n should clamp, got %d", len(got))
	}
}

func TestAggregates(t *testing.T) {
	counts := CountByCategory()
	var total int
	for _, n := range counts {
		total += n
	}
	if total != len(All()) {
		t.Errorf("category counts sum to %d", total)
	}

	if r := AverageRating(); r <= 0 || r > 5 {
		t.Errorf("AverageRating = %v", r)
	}
	if p := AveragePrice(); p <= 0 {
		t.Errorf("AveragePrice = %v", p)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(0); got != "FREE" {
		t.Errorf("FormatPrice(0) = %q", got)
	}
	if got := FormatPrice(59.99); got != "$59.99" {
		t.Errorf("FormatPrice(59.99) = %q", got)
	}
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Errorf("FormatCount = %q", got)
	}
}
