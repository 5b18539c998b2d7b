// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestSSEReader(t *testing.T) {
	input := "data: first\n\n" +
		": comment ignored\n" +
		"event: message\n" +
		"data: second\n\n" +
		"data: multi\ndata: line\n\n"
	r := NewSSEReader(strings.NewReader(input))

	want := []string{"first", "second", "multi\nline"}
	for _, w := range want {
		data, err := r.ReadEvent()
		if err != nil {
			t.Fatalf("ReadEvent: %v", err)
		}
		if string(data) != w {
			t.Errorf("ReadEvent = %q, want %q", data, w)
		}
	}
	if _, err := r.ReadEvent(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestSSEReaderFinalEventWithoutTrailingNewline(t *testing.T) {
	r := NewSSEReader(strings.NewReader("data: tail\n"))
	data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "tail" {
		t.Errorf("ReadEvent = %q", data)
	}
}

func TestListenConversationSkipsHeartbeatsAndMalformedFrames(t *testing.T) {
	frames := "data: ping\n\n" +
		"data: {\"data\":{\"payload\":{\"type\":\"text\",\"text\":\"hello\"}}}\n\n" +
		"data: {not json\n\n" +
		"data: {\"data\":{\"payload\":{\"type\":\"card\",\"title\":\"Deal\"}}}\n\n"

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, frames)
	}))

	events, err := c.ListenConversation(context.Background(), "conv-1")
	if err != nil {
		t.Fatal(err)
	}

	var texts []string
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}
		texts = append(texts, ev.Text)
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(texts), texts)
	}
	if texts[0] != "hello" {
		t.Errorf("first event = %q", texts[0])
	}
	if texts[1] != "> **Deal**" {
		t.Errorf("second event = %q", texts[1])
	}
}

func TestListenConversationHTTPErrorYieldsOneErrorEvent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"forbidden"}`))
	}))

	events, err := c.ListenConversation(context.Background(), "conv-1")
	if err != nil {
		t.Fatal(err)
	}

	var got []ListenEvent
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 1 || got[0].Err == nil {
		t.Fatalf("expected exactly one error event, got %v", got)
	}
	var apiErr *Error
	if !errors.As(got[0].Err, &apiErr) || apiErr.Kind != KindAuth {
		t.Errorf("unexpected error: %v", got[0].Err)
	}
}

func TestListenConversationCleanEOFClosesChannel(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"data\":{\"payload\":{\"type\":\"text\",\"text\":\"bye\"}}}\n\n")
	}))

	events, err := c.ListenConversation(context.Background(), "conv-1")
	if err != nil {
		t.Fatal(err)
	}

	ev, ok := <-events
	if !ok || ev.Err != nil || ev.Text != "bye" {
		t.Fatalf("unexpected first event: %v %v", ev, ok)
	}
	if ev, ok := <-events; ok {
		t.Fatalf("expected closed channel, got %v", ev)
	}
}
