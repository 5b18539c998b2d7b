// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the GameVerse store catalog and the query
// operations the browse, home and analytics views are built on. The
// catalog is a fixed in-memory data set; there is no store backend.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Game is one store catalog entry.
type Game struct {
	ID          int
	Title       string
	Price       float64
	Category    string
	Tags        []string
	Description string
	Rating      float64
	ReleaseDate string
	Developer   string
	ImageURL    string
}

// Free reports whether the game is free to play.
func (g Game) Free() bool {
	return g.Price == 0
}

// =============================================================================
// QUERIES
// =============================================================================

// All returns a copy of the full catalog.
func All() []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

// Get returns the game with the given id.
func Get(id int) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Categories returns the sorted set of catalog categories.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range games {
		if !seen[g.Category] {
			seen[g.Category] = true
			out = append(out, g.Category)
		}
	}
	sort.Strings(out)
	return out
}

// PriceRange is a browse-view price filter bucket.
type PriceRange string

// Price filter buckets, matching the browse view's selector.
const (
	AnyPrice   PriceRange = "All"
	FreeOnly   PriceRange = "Free"
	Under20    PriceRange = "Under $20"
	From20To40 PriceRange = "$20-$40"
	Over40     PriceRange = "$40+"
)

// PriceRanges lists the buckets in display order.
func PriceRanges() []PriceRange {
	return []PriceRange{AnyPrice, FreeOnly, Under20, From20To40, Over40}
}

func (r PriceRange) matches(price float64) bool {
	switch r {
	case FreeOnly:
		return price == 0
	case Under20:
		return price < 20
	case From20To40:
		return price >= 20 && price <= 40
	case Over40:
		return price > 40
	}
	return true
}

// Filter selects catalog entries. Query matches case-insensitively
// against title, tags and description; an empty query, the "All"
// category and the AnyPrice range each match everything.
type Filter struct {
	Query    string
	Category string
	Price    PriceRange
}

// Select returns the games matching the filter, in catalog order.
func Select(f Filter) []Game {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []Game
	for _, g := range games {
		if f.Category != "" && f.Category != "All" && g.Category != f.Category {
			continue
		}
		if f.Price != "" && !f.Price.matches(g.Price) {
			continue
		}
		if query != "" && !matchesQuery(g, query) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matchesQuery(g Game, query string) bool {
	if strings.Contains(strings.ToLower(g.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(g.Description), query) {
		return true
	}
	for _, tag := range g.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// SortKey selects the browse-view sort order.
type SortKey string

// Sort orders offered by the browse view.
const (
	SortTitle     SortKey = "title"
	SortPriceAsc  SortKey = "price"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// SortBy sorts games in place by the given key. Rating sorts highest
// first; ties keep catalog order.
func SortBy(gs []Game, key SortKey) {
	switch key {
	case SortTitle:
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].Title < gs[j].Title })
	case SortPriceAsc:
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].Price < gs[j].Price })
	case SortPriceDesc:
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].Price > gs[j].Price })
	case SortRating:
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].Rating > gs[j].Rating })
	}
}

// Featured returns the n top-rated games.
func Featured(n int) []Game {
	gs := All()
	SortBy(gs, SortRating)
	if n > len(gs) {
		n = len(gs)
	}
	return gs[:n]
}

// FreeGames returns all free-to-play games.
func FreeGames() []Game {
	return Select(Filter{Price: FreeOnly})
}

// =============================================================================
// AGGREGATES (analytics view)
// =============================================================================

// CountByCategory returns the number of games per category.
func CountByCategory() map[string]int {
	out := make(map[string]int)
	for _, g := range games {
		out[g.Category]++
	}
	return out
}

// AverageRating returns the mean rating across the catalog.
func AverageRating() float64 {
	if len(games) == 0 {
		return 0
	}
	var sum float64
	for _, g := range games {
		sum += g.Rating
	}
	return sum / float64(len(games))
}

// AveragePrice returns the mean price across paid games.
func AveragePrice() float64 {
	var sum float64
	var n int
	for _, g := range games {
		if g.Price > 0 {
			sum += g.Price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// =============================================================================
// DISPLAY FORMATTING
// =============================================================================

// printer renders prices and counts with English grouping.
var printer = message.NewPrinter(language.English)

// FormatPrice renders a price for display; zero is "FREE".
func FormatPrice(price float64) string {
	if price == 0 {
		return "FREE"
	}
	return printer.Sprintf("$%.2f", price)
}

// FormatCount renders an integer with thousands grouping.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
