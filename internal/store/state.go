// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the session-scoped application state: cart,
// wishlist, profile and counters. State is an explicit struct owned by
// the UI layer, not ambient globals, and lives only for the process
// lifetime; nothing here is persisted.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gameverse/gameverse-tui/internal/catalog"
)

// Profile is the user's editable store profile.
type Profile struct {
	Name        string
	Email       string
	MemberSince time.Time
}

// State is the per-session application state. All methods are safe for
// concurrent use; the TUI and background commands share one instance.
type State struct {
	mu sync.Mutex

	sessionID string
	startedAt time.Time

	cart     []catalog.Game
	wishlist []catalog.Game
	profile  Profile

	chatQueries int
	pageViews   int
}

// New creates an empty session state with a fresh session id.
func New() *State {
	now := time.Now()
	return &State{
		sessionID: uuid.NewString(),
		startedAt: now,
		profile: Profile{
			Name:        "Player One",
			Email:       "player@gameverse.example",
			MemberSince: now,
		},
	}
}

// SessionID returns the session identifier.
func (s *State) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// StartedAt returns when the session began.
func (s *State) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// =============================================================================
// CART
// =============================================================================

// AddToCart adds a game to the cart. Duplicate ids are rejected.
func (s *State) AddToCart(g catalog.Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if containsID(s.cart, g.ID) {
		return false
	}
	s.cart = append(s.cart, g)
	return true
}

// RemoveFromCart removes the game with the given id from the cart.
func (s *State) RemoveFromCart(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	s.cart, removed = removeID(s.cart, id)
	return removed
}

// Cart returns a copy of the cart contents.
func (s *State) Cart() []catalog.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Game(nil), s.cart...)
}

// CartTotal returns the sum of cart prices.
func (s *State) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, g := range s.cart {
		total += g.Price
	}
	return total
}

// ClearCart empties the cart. Used by the simulated checkout.
func (s *State) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// CartSize returns the number of cart items.
func (s *State) CartSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart)
}

// =============================================================================
// WISHLIST
// =============================================================================

// AddToWishlist adds a game to the wishlist. Duplicate ids are rejected.
func (s *State) AddToWishlist(g catalog.Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if containsID(s.wishlist, g.ID) {
		return false
	}
	s.wishlist = append(s.wishlist, g)
	return true
}

// RemoveFromWishlist removes the game with the given id.
func (s *State) RemoveFromWishlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	s.wishlist, removed = removeID(s.wishlist, id)
	return removed
}

// Wishlist returns a copy of the wishlist contents.
func (s *State) Wishlist() []catalog.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Game(nil), s.wishlist...)
}

// WishlistSize returns the number of wishlist items.
func (s *State) WishlistSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wishlist)
}

// MoveToCart moves a wishlist entry into the cart. The wishlist entry
// is removed even when the cart already holds the game.
func (s *State) MoveToCart(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.wishlist {
		if g.ID == id {
			s.wishlist, _ = removeID(s.wishlist, id)
			if !containsID(s.cart, id) {
				s.cart = append(s.cart, g)
			}
			return true
		}
	}
	return false
}

// =============================================================================
// PROFILE AND COUNTERS
// =============================================================================

// Profile returns the current profile.
func (s *State) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetProfile updates name and email; the membership date is fixed.
func (s *State) SetProfile(name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = name
	s.profile.Email = email
}

// RecordChatQuery increments the AI query counter.
func (s *State) RecordChatQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatQueries++
}

// ChatQueries returns the number of AI queries this session.
func (s *State) ChatQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatQueries
}

// RecordPageView increments the page view counter.
func (s *State) RecordPageView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageViews++
}

// PageViews returns the number of page views this session.
func (s *State) PageViews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageViews
}

func containsID(gs []catalog.Game, id int) bool {
	for _, g := range gs {
		if g.ID == id {
			return true
		}
	}
	return false
}

func removeID(gs []catalog.Game, id int) ([]catalog.Game, bool) {
	for i, g := range gs {
		if g.ID == id {
			return append(gs[:i], gs[i+1:]...), true
		}
	}
	return gs, false
}
