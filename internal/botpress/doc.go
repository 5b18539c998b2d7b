// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package botpress implements the client for the Botpress Chat API.
//
// The client mediates all interaction with the remote conversational
// service: user identity, conversation threads, message send/fetch with
// a short-lived cache, rich-payload normalization, and reply delivery
// via bounded polling or a server-sent-event stream. Transport concerns
// (timeouts, retries, connection pooling, rate limiting) are hidden
// behind the client; every operation returns a typed *Error on failure
// so callers can render a failure message without special-casing.
package botpress
