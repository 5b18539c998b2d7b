// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next SSE event and returns its data payload.
// Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Other fields (event:, id:, retry:, comments) are ignored.
	}
}

// =============================================================================
// CONVERSATION LISTEN STREAM
// =============================================================================

// ListenEvent is one item produced by ListenConversation: either a
// normalized text chunk or, exactly once before the channel closes, a
// non-nil Err describing why the stream ended abnormally.
type ListenEvent struct {
	Text string
	Err  error
}

// listenFrame is the wire shape of a conversation event:
// {"data": {"payload": {...}}}.
type listenFrame struct {
	Data struct {
		Payload Payload `json:"payload"`
	} `json:"data"`
}

// ListenConversation opens a server-sent-event stream on the
// conversation and produces normalized text chunks as the assistant
// emits events. Literal "ping" heartbeat frames are skipped; malformed
// frames are dropped without aborting the stream. Stream or connection
// failure yields a single error-carrying event and then the channel
// closes, so the consumer's iteration always terminates cleanly.
//
// The underlying connection is held open for the stream's lifetime,
// bounded by StreamTimeout and the given context.
func (c *Client) ListenConversation(ctx context.Context, conversationID string) (<-chan ListenEvent, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	events := make(chan ListenEvent)
	go func() {
		defer close(events)

		path := c.baseURL + "/conversations/" + url.PathEscape(conversationID) + "/listen"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			events <- ListenEvent{Err: &Error{Kind: KindTransport, Message: err.Error()}}
			return
		}
		c.setHeaders(req)
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := c.streamClient.Do(req)
		if err != nil {
			events <- ListenEvent{Err: classifyTransport(err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
			events <- ListenEvent{Err: httpError(resp.StatusCode, body)}
			return
		}

		reader := NewSSEReader(resp.Body)
		for {
			select {
			case <-ctx.Done():
				events <- ListenEvent{Err: classifyTransport(ctx.Err())}
				return
			default:
			}

			data, err := reader.ReadEvent()
			if err != nil {
				if err == io.EOF {
					return
				}
				events <- ListenEvent{Err: classifyTransport(err)}
				return
			}

			// Heartbeat.
			if bytes.Equal(data, []byte("ping")) {
				continue
			}

			var frame listenFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				// Malformed frames are dropped, not fatal.
				continue
			}

			text := RenderPayload(frame.Data.Payload)
			if text == "" {
				continue
			}

			select {
			case events <- ListenEvent{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
