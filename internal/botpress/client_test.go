// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) error { return nil }

// newTestClient builds a client pointed at an httptest server with the
// backoff sleep disabled.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Credentials{APIID: "test-bot", UserKey: "key-1"}).
		WithBaseURL(srv.URL).
		WithSleep(noSleep)
	t.Cleanup(c.Close)
	return c, srv
}

func TestListMessagesServesCache(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"messages":[{"id":"m1","userId":"bot","payload":{"type":"text","text":"hi"}}]}`))
	}))

	ctx := context.Background()
	first, err := c.ListMessages(ctx, "conv-1", 5, false)
	if err != nil {
		t.Fatalf("first ListMessages: %v", err)
	}
	second, err := c.ListMessages(ctx, "conv-1", 5, false)
	if err != nil {
		t.Fatalf("second ListMessages: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != "m1" {
		t.Errorf("unexpected messages: %v / %v", first, second)
	}
}

func TestListMessagesIgnoreCacheForcesFetch(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"messages":[]}`))
	}))

	ctx := context.Background()
	if _, err := c.ListMessages(ctx, "conv-1", 5, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListMessages(ctx, "conv-1", 5, true); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestCreateMessageEvictsMessageCache(t *testing.T) {
	var listCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"message":{"id":"m2","userId":"me","payload":{"type":"text","text":"hello"}}}`))
			return
		}
		atomic.AddInt32(&listCalls, 1)
		w.Write([]byte(`{"messages":[]}`))
	}))

	ctx := context.Background()
	if _, err := c.ListMessages(ctx, "conv-1", 5, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateMessage(ctx, "conv-1", "hello"); err != nil {
		t.Fatal(err)
	}
	// The cached entry is gone, so this must hit the network again.
	if _, err := c.ListMessages(ctx, "conv-1", 5, false); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&listCalls); got != 2 {
		t.Errorf("expected 2 list requests, got %d", got)
	}
}

func TestCreateConversationSeedsEmptyMessageCache(t *testing.T) {
	var listCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"conversation":{"id":"conv-new"}}`))
			return
		}
		atomic.AddInt32(&listCalls, 1)
		w.Write([]byte(`{"messages":[]}`))
	}))

	ctx := context.Background()
	conv, err := c.CreateConversation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := c.ListMessages(ctx, conv.ID, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected empty seeded list, got %v", msgs)
	}
	if got := atomic.LoadInt32(&listCalls); got != 0 {
		t.Errorf("expected 0 list requests after create, got %d", got)
	}
}

func TestRetryTransientStatusThenSuccess(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"conversations":[{"id":"c1"}]}`))
	}))

	conversations, err := c.ListConversations(context.Background())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(conversations) != 1 {
		t.Errorf("unexpected conversations: %v", conversations)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListConversations(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Kind != KindHTTP || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if !strings.Contains(apiErr.Message, "max retries exceeded") {
		t.Errorf("message should note retry exhaustion: %q", apiErr.Message)
	}
	if got := atomic.LoadInt32(&calls); got != DefaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultMaxAttempts, got)
	}
}

func TestNonRetryableStatusSurfacesImmediately(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such conversation"}`))
	}))

	_, err := c.GetConversation(context.Background(), "missing")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindHTTP || apiErr.Status != http.StatusNotFound {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if apiErr.Message != "no such conversation" {
		t.Errorf("error envelope not unwrapped: %q", apiErr.Message)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestUnauthorizedMapsToAuthKind(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid user key"}`))
	}))

	_, err := c.GetUser(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindAuth {
		t.Errorf("expected auth kind, got %s", apiErr.Kind)
	}
}

func TestGetUserCachesIdentityUntilKeyRotation(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("x-user-key") == "key-2" {
			w.Write([]byte(`{"user":{"id":"user-2"}}`))
			return
		}
		w.Write([]byte(`{"user":{"id":"user-1"}}`))
	}))

	ctx := context.Background()
	u, err := c.GetUser(ctx)
	if err != nil || u.ID != "user-1" {
		t.Fatalf("GetUser: %v %v", u, err)
	}
	if u, _ := c.GetUser(ctx); u.ID != "user-1" {
		t.Fatalf("expected cached identity, got %v", u)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 fetch before rotation, got %d", got)
	}

	c.SetUserKey("key-2")
	u, err = c.GetUser(ctx)
	if err != nil || u.ID != "user-2" {
		t.Fatalf("expected fresh identity after rotation, got %v %v", u, err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 fetches total, got %d", got)
	}
}

func TestGetUserWithoutKey(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	c.SetUserKey("")

	_, err := c.GetUser(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCreateAndSetUserAdoptsIssuedKey(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			w.Write([]byte(`{"user":{"id":"fresh"},"key":"issued-key"}`))
		case "/users/me":
			if r.Header.Get("x-user-key") != "issued-key" {
				t.Errorf("expected issued key, got %q", r.Header.Get("x-user-key"))
			}
			w.Write([]byte(`{"user":{"id":"fresh"}}`))
		}
	}))

	ctx := context.Background()
	result, err := c.CreateAndSetUser(ctx, "Player One", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Key != "issued-key" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if u, err := c.GetUser(ctx); err != nil || u.ID != "fresh" {
		t.Errorf("GetUser after adoption: %v %v", u, err)
	}
}

func TestClosedClientFailsFast(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	c.Close()
	c.Close() // idempotent

	ctx := context.Background()
	if _, err := c.GetUser(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("GetUser after close: %v", err)
	}
	if _, err := c.ListMessages(ctx, "c", 5, true); !errors.Is(err, ErrClosed) {
		t.Errorf("ListMessages after close: %v", err)
	}
	if _, err := c.ListenConversation(ctx, "c"); !errors.Is(err, ErrClosed) {
		t.Errorf("ListenConversation after close: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("closed client made %d requests", got)
	}
}

func TestRequestHeaders(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("x-user-key"); got != "key-1" {
			t.Errorf("x-user-key = %q", got)
		}
		w.Write([]byte(`{"conversations":[]}`))
	}))

	if _, err := c.ListConversations(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestListMessagesNormalizesRichPayloads(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[{"id":"m1","userId":"bot","payload":{"type":"image","image":"https://x/pic.png","title":"Poster"}}]}`))
	}))

	msgs, err := c.ListMessages(context.Background(), "conv-1", 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := msgs[0].Payload.Text, "![Poster](https://x/pic.png)"; got != want {
		t.Errorf("normalized text = %q, want %q", got, want)
	}
}

// Callers get their own slice: mutating a ListMessages result, whether
// it came from the network or the cache, must not corrupt later reads.
func TestListMessagesResultIsIsolatedFromCache(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[{"id":"m1","userId":"bot","payload":{"type":"text","text":"hi"}}]}`))
	}))

	ctx := context.Background()
	fetched, err := c.ListMessages(ctx, "conv-1", 5, false)
	if err != nil {
		t.Fatal(err)
	}
	fetched[0].Payload.Text = "mutated"

	cached, err := c.ListMessages(ctx, "conv-1", 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if cached[0].Payload.Text != "hi" {
		t.Errorf("live-fetch result aliased the cache entry: %q", cached[0].Payload.Text)
	}

	cached[0].Payload.Text = "mutated again"
	again, err := c.ListMessages(ctx, "conv-1", 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Payload.Text != "hi" {
		t.Errorf("cache-hit result aliased the cache entry: %q", again[0].Payload.Text)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	if backoff(1) != retryBaseDelay {
		t.Errorf("backoff(1) = %v", backoff(1))
	}
	if backoff(2) != 2*retryBaseDelay {
		t.Errorf("backoff(2) = %v", backoff(2))
	}
	if backoff(20) != retryMaxDelay {
		t.Errorf("backoff(20) = %v", backoff(20))
	}
}
