// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import (
	"fmt"
	"strings"

	"github.com/gameverse/gameverse-tui/internal/util"
)

// maxAltWidth bounds the display width of image alt text.
const maxAltWidth = 60

// RenderPayload converts a rich message payload into display text
// (markdown). It is a pure function: no I/O, no client state, and
// byte-identical output for the same payload, so the result is safe to
// store back onto a message and cache.
//
// Variants:
//   - image: an image reference with the title as alt text
//   - card: a bordered block with optional image, bold title and muted
//     subtitle
//   - carousel: a strip of card-like items
//   - single-choice / choice: the prompt followed by one bullet per
//     choice, labeled by title falling back to the raw value
//   - anything else: the payload's raw text, or empty string
func RenderPayload(p Payload) string {
	switch p.Type {
	case "image":
		if p.Image == "" {
			break
		}
		title := p.Title
		if title == "" {
			title = "Image"
		}
		return fmt.Sprintf("![%s](%s)", util.TruncateWidth(title, maxAltWidth), p.Image)

	case "card":
		return renderCard(p.Title, p.Subtitle, p.Image)

	case "carousel":
		blocks := make([]string, 0, len(p.Items))
		for _, item := range p.Items {
			blocks = append(blocks, renderCard(item.Title, item.Subtitle, item.Image))
		}
		return strings.Join(blocks, "\n\n")

	case "single-choice", "choice":
		var b strings.Builder
		b.WriteString(p.Text)
		b.WriteString("\n\n")
		for _, choice := range p.Choices {
			label := choice.Title
			if label == "" {
				label = choice.Value
			}
			b.WriteString("* ")
			b.WriteString(label)
			b.WriteString("\n")
		}
		return b.String()
	}

	return p.Text
}

// renderCard assembles a card block. Blockquote lines render as a
// bordered block in the terminal markdown renderer; the title is bold
// and the subtitle italic (muted).
func renderCard(title, subtitle, image string) string {
	var lines []string
	if image != "" {
		lines = append(lines, fmt.Sprintf("![](%s)", image))
	}
	if title != "" {
		lines = append(lines, fmt.Sprintf("**%s**", title))
	}
	if subtitle != "" {
		lines = append(lines, fmt.Sprintf("_%s_", subtitle))
	}
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}
