// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the Botpress Chat API.
const (
	// DefaultBaseURL is the base URL for the chat service. All requests
	// are scoped under the configured service instance (webhook) id.
	DefaultBaseURL = "https://chat.botpress.cloud"

	// DefaultTimeout is the timeout for ordinary API requests.
	DefaultTimeout = 30 * time.Second

	// StreamTimeout bounds the lifetime of an SSE listen stream. It is
	// deliberately much longer than DefaultTimeout; the connection is
	// held open while the assistant produces events.
	StreamTimeout = 120 * time.Second

	// DefaultMaxAttempts is the total number of attempts (first try
	// included) for transient failures.
	DefaultMaxAttempts = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the backoff delay.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize limits response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024
)

// sharedTransport is the pooled transport used by every client. The
// per-host connection cap bounds concurrent outbound connections across
// all operations on one client instance.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	MaxConnsPerHost:     20,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// User is an end-user identity known to the chat service.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Conversation is a message thread between a user and the assistant.
type Conversation struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Choice is one selectable option in a choice payload.
type Choice struct {
	Title string `json:"title,omitempty"`
	Value string `json:"value,omitempty"`
}

// CarouselItem is one card-like entry in a carousel payload.
type CarouselItem struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Payload is a tagged message body. Type selects the variant: "text",
// "image", "card", "carousel", "single-choice" or "choice". Unrecognized
// types fall back to Text.
type Payload struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Image    string         `json:"image,omitempty"`
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Items    []CarouselItem `json:"items,omitempty"`
	Choices  []Choice       `json:"choices,omitempty"`
}

// Message is a single message in a conversation. The service returns
// message lists newest-first; callers reverse for chronological display.
type Message struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Payload   Payload `json:"payload"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// UserResult is the envelope returned by user creation. Key is the
// bearer credential issued for the new user.
type UserResult struct {
	User User   `json:"user"`
	Key  string `json:"key,omitempty"`
}

type userEnvelope struct {
	User User `json:"user"`
}

type conversationEnvelope struct {
	Conversation Conversation `json:"conversation"`
}

type conversationListEnvelope struct {
	Conversations []Conversation `json:"conversations"`
}

type messageEnvelope struct {
	Message Message `json:"message"`
}

type messageListEnvelope struct {
	Messages []Message `json:"messages"`
}

// errorEnvelope is the error-as-value shape the service returns on
// failures: {"error": "..."}.
type errorEnvelope struct {
	Error string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Credentials identify one end-user against one configured chat bot.
type Credentials struct {
	// APIID is the service instance (webhook) identifier scoping all
	// API calls to one bot.
	APIID string

	// UserKey is the bearer credential identifying the end-user.
	UserKey string
}

// Client is a session-scoped Botpress Chat API client. Caches are owned
// exclusively by one instance and cleared wholesale on Close. The zero
// value is not usable; construct with New.
type Client struct {
	mu      sync.Mutex
	userKey string
	closed  bool

	// identity is the lazily fetched current user, invalidated on key
	// rotation or user creation.
	identity *User

	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
	maxAttempts  int
	sleep        func(context.Context, time.Duration) error

	conversations *cache[Conversation]
	messages      *cache[[]Message]
}

// New creates a client for the given credentials. The returned client
// uses the shared pooled transport, a 30s request timeout and a 120s
// stream timeout, and retries transient failures up to 3 attempts with
// exponential backoff starting at 500ms.
func New(creds Credentials) *Client {
	return &Client{
		userKey: strings.TrimSpace(creds.UserKey),
		baseURL: DefaultBaseURL + "/" + strings.TrimSpace(creds.APIID),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		streamClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   StreamTimeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(20), 20),
		maxAttempts:   DefaultMaxAttempts,
		sleep:         sleepContext,
		conversations: newCache[Conversation](),
		messages:      newCache[[]Message](),
	}
}

// WithBaseURL points the client at a custom service URL. The service
// instance id is appended by New, so the full base URL must be given.
func (c *Client) WithBaseURL(raw string) *Client {
	c.baseURL = strings.TrimSuffix(raw, "/")
	return c
}

// WithTimeout sets the timeout for ordinary requests.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// WithMaxAttempts sets the total attempt budget for transient failures.
func (c *Client) WithMaxAttempts(n int) *Client {
	if n > 0 {
		c.maxAttempts = n
	}
	return c
}

// WithSleep replaces the backoff sleep. Tests inject a no-op here to
// exercise the retry policy without wall-clock delays.
func (c *Client) WithSleep(fn func(context.Context, time.Duration) error) *Client {
	c.sleep = fn
	return c
}

// IsConfigured reports whether a user key is set.
func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userKey != ""
}

// Close releases cached state and marks the client unusable. Subsequent
// operations fail fast with ErrClosed. Close is idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.identity = nil
	c.conversations.clear()
	c.messages.clear()
	c.httpClient.CloseIdleConnections()
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Client) currentKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userKey
}

// =============================================================================
// TRANSPORT
// =============================================================================

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// backoff returns the delay before the given retry attempt (1-based).
func backoff(attempt int) time.Duration {
	d := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if d > retryMaxDelay {
		d = retryMaxDelay
	}
	return d
}

// readBody reads a response body with a size limit.
func readBody(resp *http.Response) ([]byte, *Error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("response exceeded %d bytes", int64(MaxResponseSize))}
	}
	return body, nil
}

// setHeaders applies the fixed header set every request carries.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-user-key", c.currentKey())
}

// doJSON performs one logical request with the shared retry policy and
// decodes the response envelope into out. Transient statuses (429, 500,
// 502, 503, 504) and connection-level failures are retried up to the
// attempt budget; everything else surfaces on first occurrence.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindTransport, Message: "encode request: " + err.Error()}
		}
	}

	var lastErr *Error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, backoff(attempt-1)); err != nil {
				return classifyTransport(err)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return classifyTransport(err)
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return &Error{Kind: KindTransport, Message: err.Error()}
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = classifyTransport(err)
			if lastErr.Kind == KindTimeout {
				// Timeouts surface immediately; only connection-level
				// faults and transient statuses are retried.
				return lastErr
			}
			continue
		}

		respBody, rerr := readBody(resp)
		resp.Body.Close()
		if rerr != nil {
			lastErr = rerr
			continue
		}

		if retryableStatus[resp.StatusCode] {
			lastErr = httpError(resp.StatusCode, respBody)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return httpError(resp.StatusCode, respBody)
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return &Error{Kind: KindTransport, Message: "decode response: " + err.Error()}
			}
		}
		return nil
	}

	lastErr.Message = fmt.Sprintf("max retries exceeded: %s", lastErr.Message)
	return lastErr
}

// httpError converts a non-2xx response into a typed error, pulling the
// service's {"error": msg} envelope out of the body when present.
func httpError(status int, body []byte) *Error {
	msg := strings.TrimSpace(string(body))
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		msg = envelope.Error
	}
	kind := KindHTTP
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}

// =============================================================================
// USERS
// =============================================================================

// GetUser returns the current user identity, fetching GET /users/me on
// first use and serving the cached identity afterwards. The cache is
// invalidated by SetUserKey and CreateUser.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.identity != nil {
		u := *c.identity
		c.mu.Unlock()
		return &u, nil
	}
	key := c.userKey
	c.mu.Unlock()

	if key == "" {
		return nil, ErrNotConfigured
	}

	var envelope userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &envelope); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.identity = &envelope.User
	c.mu.Unlock()
	u := envelope.User
	return &u, nil
}

// CreateUser creates a new user with POST /users and returns the
// created-user envelope including its issued key. The identity cache is
// invalidated: the client may now be rotated onto the new key.
func (c *Client) CreateUser(ctx context.Context, name, id string) (*UserResult, error) {
	body := map[string]string{"name": name, "id": id}
	var result UserResult
	if err := c.doJSON(ctx, http.MethodPost, "/users", body, &result); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.identity = nil
	c.mu.Unlock()
	return &result, nil
}

// SetUserKey rotates the credential in place and invalidates the
// identity cache. No network call is made; the next GetUser fetches
// fresh identity under the new key.
func (c *Client) SetUserKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userKey = strings.TrimSpace(key)
	c.identity = nil
}

// CreateAndSetUser creates a user and, when the service issues a key,
// adopts it as the client's credential.
func (c *Client) CreateAndSetUser(ctx context.Context, name, id string) (*UserResult, error) {
	result, err := c.CreateUser(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if result.Key != "" {
		c.SetUserKey(result.Key)
	}
	return result, nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// CreateConversation creates a new thread with POST /conversations. On
// success the new conversation's message-list cache is seeded with an
// empty list: a brand-new thread is necessarily empty, so the first
// ListMessages needs no network round trip.
func (c *Client) CreateConversation(ctx context.Context) (*Conversation, error) {
	body := map[string]any{"body": map[string]any{}}
	var envelope conversationEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/conversations", body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Conversation.ID != "" {
		c.messages.put(envelope.Conversation.ID, []Message{})
	}
	conv := envelope.Conversation
	return &conv, nil
}

// ListConversations returns all conversations for the current user.
// Always fetched live, never cached.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var envelope conversationListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Conversations, nil
}

// GetConversation returns conversation details, cached after the first
// fetch per id. Metadata staleness is accepted; the entry is never
// proactively invalidated.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if conv, ok := c.conversations.get(conversationID); ok {
		return &conv, nil
	}
	var envelope conversationEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/conversations/"+url.PathEscape(conversationID), nil, &envelope); err != nil {
		return nil, err
	}
	c.conversations.put(conversationID, envelope.Conversation)
	conv := envelope.Conversation
	return &conv, nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// CreateMessage sends a text message into a conversation. On return the
// conversation's message-list cache entry is unconditionally evicted so
// the next read observes the new message.
func (c *Client) CreateMessage(ctx context.Context, conversationID, text string) (*Message, error) {
	body := map[string]any{
		"payload":        Payload{Type: "text", Text: text},
		"conversationId": conversationID,
	}
	var envelope messageEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/messages", body, &envelope)

	// Evict even on failure: the service may have accepted the message
	// before the response was lost.
	c.messages.invalidate(conversationID)

	if err != nil {
		return nil, err
	}
	msg := envelope.Message
	return &msg, nil
}

// ListMessages returns the messages of a conversation, newest first.
// The cached list is served unless ignoreCache is set or no entry
// exists. On a live fetch, every message whose payload lacks text gets
// one derived via rich-payload normalization before caching, so
// normalization runs once per fetch rather than once per render.
func (c *Client) ListMessages(ctx context.Context, conversationID string, limit int, ignoreCache bool) ([]Message, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if !ignoreCache {
		if msgs, ok := c.messages.get(conversationID); ok {
			return append([]Message(nil), msgs...), nil
		}
	}

	path := fmt.Sprintf("/conversations/%s/messages?limit=%d", url.PathEscape(conversationID), limit)
	var envelope messageListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}

	msgs := envelope.Messages
	for i := range msgs {
		if msgs[i].Payload.Text == "" {
			msgs[i].Payload.Text = RenderPayload(msgs[i].Payload)
		}
	}
	// The cache keeps its own copy so callers can reorder or edit the
	// returned slice without corrupting later reads.
	c.messages.put(conversationID, append([]Message(nil), msgs...))
	return msgs, nil
}
