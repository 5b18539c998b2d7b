// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"context"
	"time"
)

// Polling protocol constants, shared with the caller-facing docs: after
// sending a user message the caller re-reads the newest messages every
// PollInterval for up to PollAttempts attempts (~10s total), bypassing
// the cache on every read.
const (
	// PollInterval is the fixed delay between poll attempts.
	PollInterval = 500 * time.Millisecond

	// PollAttempts is the attempt budget before the poll times out.
	PollAttempts = 20

	// pollFetchLimit is how many newest messages each poll fetches.
	pollFetchLimit = 5
)

// pollPhase is the state of one reply-poll run: sending the user
// message, polling with a decrementing attempt budget, then either
// delivered or timed out.
type pollPhase int

const (
	phasePolling pollPhase = iota
	phaseDelivered
	phaseTimedOut
)

// Poller drives the client-side reply-delivery protocol: a simple
// at-least-once polling loop chosen over a persistent stream so no open
// connection is held per active chat session. The tradeoff is up to one
// poll interval of added latency and redundant reads.
type Poller struct {
	client *Client

	// Interval and Attempts default to PollInterval and PollAttempts.
	Interval time.Duration
	Attempts int

	// sleep is injectable so tests can run the state machine without
	// wall-clock delays.
	sleep func(context.Context, time.Duration) error
}

// NewPoller creates a poller with the default protocol constants.
func NewPoller(c *Client) *Poller {
	return &Poller{
		client:   c,
		Interval: PollInterval,
		Attempts: PollAttempts,
		sleep:    sleepContext,
	}
}

// WithSleep replaces the inter-attempt sleep. For tests.
func (p *Poller) WithSleep(fn func(context.Context, time.Duration) error) *Poller {
	p.sleep = fn
	return p
}

// AwaitReply polls the conversation until a message authored by someone
// other than localUserID appears as the newest message, then returns
// it. Delivery detection is sender-based, not content-based: an
// assistant message whose normalized text is empty still counts as the
// reply. If the attempt budget is exhausted first, ErrNoReply is
// returned.
//
// Fetches bypass the message-list cache, and fetch errors during
// polling are tolerated (the attempt is simply spent). Only one poll
// loop per conversation may be active at a time; concurrent pollers on
// the same conversation race on cache eviction.
func (p *Poller) AwaitReply(ctx context.Context, conversationID, localUserID string) (*Message, error) {
	phase := phasePolling
	remaining := p.Attempts
	var reply *Message

	for phase == phasePolling {
		if remaining == 0 {
			phase = phaseTimedOut
			continue
		}
		remaining--

		if err := p.sleep(ctx, p.Interval); err != nil {
			return nil, classifyTransport(err)
		}

		msgs, err := p.client.ListMessages(ctx, conversationID, pollFetchLimit, true)
		if err != nil {
			// Closed clients cannot recover; transient fetch errors
			// just spend the attempt.
			if e, ok := err.(*Error); ok && e.Kind == KindClosed {
				return nil, err
			}
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		// Newest first: the head message is the latest in the thread.
		if msgs[0].UserID != localUserID {
			reply = &msgs[0]
			phase = phaseDelivered
		}
	}

	if phase == phaseDelivered {
		return reply, nil
	}
	return nil, ErrNoReply
}

// SendAndAwait sends a user message and waits for the assistant's
// reply via AwaitReply. A send failure surfaces immediately without
// entering the poll loop.
func (p *Poller) SendAndAwait(ctx context.Context, conversationID, text, localUserID string) (*Message, error) {
	if _, err := p.client.CreateMessage(ctx, conversationID, text); err != nil {
		return nil, err
	}
	return p.AwaitReply(ctx, conversationID, localUserID)
}
