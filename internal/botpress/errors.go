// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Kind classifies a client error.
type Kind string

// Error kinds. Every failure mode of the client maps onto exactly one.
const (
	// KindTimeout indicates a call exceeded its timeout.
	KindTimeout Kind = "timeout"

	// KindHTTP indicates a non-2xx response from the service.
	KindHTTP Kind = "http"

	// KindTransport indicates a connection-level failure.
	KindTransport Kind = "transport"

	// KindAuth indicates a missing or invalid user key.
	KindAuth Kind = "auth"

	// KindClosed indicates an operation on a closed client.
	KindClosed Kind = "closed"
)

// Error is the uniform error value returned by every client operation.
// Transport-layer faults are caught internally and converted to an
// *Error at the boundary; they never escape as panics.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, when Kind is KindHTTP or KindAuth
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("chat api error [%s] (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("chat api error [%s]: %s", e.Kind, e.Message)
}

// Is allows comparison against the sentinel errors below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Sentinel errors for errors.Is checks.
var (
	// ErrClosed is returned by every operation after Close. Post-close
	// calls fail fast; the client never silently reconnects.
	ErrClosed = &Error{Kind: KindClosed, Message: "client is closed"}

	// ErrNotConfigured indicates the user key is not set.
	ErrNotConfigured = &Error{Kind: KindAuth, Message: "user key not configured"}

	// ErrNoReply indicates the poll attempt budget was exhausted before
	// an assistant reply arrived.
	ErrNoReply = errors.New("no assistant reply before timeout")
)

// retryableStatus is the set of transient HTTP statuses retried by the
// shared retry policy, for idempotent and non-idempotent methods alike.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// classifyTransport converts a transport-level error from http.Client.Do
// into a typed *Error. Timeouts get their own kind so callers can tell
// "service slow" apart from "service unreachable".
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request timed out"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out"}
	}
	return &Error{Kind: KindTransport, Message: err.Error()}
}
