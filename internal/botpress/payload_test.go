// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"strings"
	"testing"
)

func TestRenderPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "text passes through",
			payload: Payload{Type: "text", Text: "hello"},
			want:    "hello",
		},
		{
			name:    "unknown type falls back to text",
			payload: Payload{Type: "video", Text: "see attachment"},
			want:    "see attachment",
		},
		{
			name:    "unknown type without text is empty",
			payload: Payload{Type: "video"},
			want:    "",
		},
		{
			name:    "image with title",
			payload: Payload{Type: "image", Image: "https://x/a.png", Title: "Cover art"},
			want:    "![Cover art](https://x/a.png)",
		},
		{
			name:    "image without title gets default alt",
			payload: Payload{Type: "image", Image: "https://x/a.png"},
			want:    "![Image](https://x/a.png)",
		},
		{
			name:    "image without url falls back to text",
			payload: Payload{Type: "image", Text: "broken image"},
			want:    "broken image",
		},
		{
			name:    "card with all fields",
			payload: Payload{Type: "card", Title: "Cyber Nexus", Subtitle: "Open world RPG", Image: "https://x/c.png"},
			want:    "> ![](https://x/c.png)\n> **Cyber Nexus**\n> _Open world RPG_",
		},
		{
			name:    "card with title only",
			payload: Payload{Type: "card", Title: "Title"},
			want:    "> **Title**",
		},
		{
			name: "carousel joins cards with blank lines",
			payload: Payload{Type: "carousel", Items: []CarouselItem{
				{Title: "One"},
				{Title: "Two", Subtitle: "second"},
			}},
			want: "> **One**\n\n> **Two**\n> _second_",
		},
		{
			name: "single choice lists options",
			payload: Payload{Type: "single-choice", Text: "Continue?", Choices: []Choice{
				{Title: "Yes", Value: "yes"},
				{Value: "no"},
			}},
			want: "Continue?\n\n* Yes\n* no\n",
		},
		{
			name: "choice alias",
			payload: Payload{Type: "choice", Text: "Pick", Choices: []Choice{
				{Title: "A"},
			}},
			want: "Pick\n\n* A\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderPayload(tt.payload); got != tt.want {
				t.Errorf("RenderPayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Rendering is pure: repeated calls on the same payload are
// byte-identical, which is what makes caching normalized text safe.
func TestRenderPayloadDeterministic(t *testing.T) {
	p := Payload{Type: "carousel", Items: []CarouselItem{
		{Title: "One", Subtitle: "first", Image: "https://x/1.png"},
		{Title: "Two"},
	}}
	first := RenderPayload(p)
	for i := 0; i < 10; i++ {
		if got := RenderPayload(p); got != first {
			t.Fatalf("render %d diverged: %q vs %q", i, got, first)
		}
	}
}

func TestRenderPayloadTruncatesLongAltText(t *testing.T) {
	p := Payload{Type: "image", Image: "https://x/a.png", Title: strings.Repeat("x", 200)}
	got := RenderPayload(p)
	alt := strings.TrimSuffix(strings.TrimPrefix(got, "!["), "](https://x/a.png)")
	if len(alt) > maxAltWidth {
		t.Errorf("alt text not truncated: %d chars", len(alt))
	}
}
