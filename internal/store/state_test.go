// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"testing"

	"github.com/gameverse/gameverse-tui/internal/catalog"
)

func game(id int, price float64) catalog.Game {
	return catalog.Game{ID: id, Title: "game", Price: price}
}

func TestCart(t *testing.T) {
	s := New()

	if !s.AddToCart(game(1, 10)) {
		t.Fatal("first add rejected")
	}
	if s.AddToCart(game(1, 10)) {
		t.Error("duplicate add accepted")
	}
	s.AddToCart(game(2, 5.50))

	if s.CartSize() != 2 {
		t.Errorf("CartSize = %d", s.CartSize())
	}
	if got := s.CartTotal(); got != 15.50 {
		t.Errorf("CartTotal = %v", got)
	}

	if !s.RemoveFromCart(1) {
		t.Error("remove existing failed")
	}
	if s.RemoveFromCart(1) {
		t.Error("remove absent succeeded")
	}

	s.ClearCart()
	if s.CartSize() != 0 {
		t.Errorf("CartSize after clear = %d", s.CartSize())
	}
}

func TestCartReturnsCopy(t *testing.T) {
	s := New()
	s.AddToCart(game(1, 10))
	items := s.Cart()
	items[0].ID = 99
	if s.Cart()[0].ID != 1 {
		t.Error("Cart must not expose internal slice")
	}
}

func TestWishlistMoveToCart(t *testing.T) {
	s := New()
	s.AddToWishlist(game(1, 10))
	s.AddToWishlist(game(2, 20))

	if !s.MoveToCart(1) {
		t.Fatal("move failed")
	}
	if s.WishlistSize() != 1 || s.CartSize() != 1 {
		t.Errorf("sizes after move: wishlist=%d cart=%d", s.WishlistSize(), s.CartSize())
	}

	// Moving an entry already present in the cart drops the wishlist
	// entry without duplicating the cart item.
	s.AddToWishlist(game(1, 10))
	s.AddToCart(game(1, 10))
	s.MoveToCart(1)
	if s.CartSize() != 1 {
		t.Errorf("cart duplicated: %d", s.CartSize())
	}
	if s.MoveToCart(42) {
		t.Error("move of absent id succeeded")
	}
}

func TestProfile(t *testing.T) {
	s := New()
	p := s.Profile()
	if p.Name == "" || p.Email == "" || p.MemberSince.IsZero() {
		t.Errorf("default profile incomplete: %+v", p)
	}

	s.SetProfile("Ada", "ada@example.test")
	got := s.Profile()
	if got.Name != "Ada" || got.Email != "ada@example.test" {
		t.Errorf("profile = %+v", got)
	}
	if !got.MemberSince.Equal(p.MemberSince) {
		t.Error("MemberSince must not change on edit")
	}
}

func TestCounters(t *testing.T) {
	s := New()
	s.RecordChatQuery()
	s.RecordChatQuery()
	s.RecordPageView()
	if s.ChatQueries() != 2 || s.PageViews() != 1 {
		t.Errorf("counters: %d %d", s.ChatQueries(), s.PageViews())
	}
}

func TestSessionIDUnique(t *testing.T) {
	if New().SessionID() == New().SessionID() {
		t.Error("session ids collide")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddToCart(game(i, 1))
			s.AddToWishlist(game(i, 1))
			s.RecordPageView()
			s.Cart()
			s.CartTotal()
		}(i)
	}
	wg.Wait()
	if s.CartSize() != 50 || s.PageViews() != 50 {
		t.Errorf("sizes: cart=%d views=%d", s.CartSize(), s.PageViews())
	}
}
