package provider

import (
	"fmt"

	"github.com/brandforge/brandforge/internal/brief"
)

// framingHints keys generation prompts to the target aspect ratio so the
// subject leaves negative space for the brand band.
var framingHints = map[string]string{
	"9:16": "vertical portrait framing, subject fully in frame, negative space at bottom third",
	"16:9": "wide landscape framing, subject fully in frame, negative space at bottom third",
}

const defaultFraming = "square centered framing, subject fully in frame, negative space at bottom third"

// BuildPrompt assembles the hero-shot prompt for one product and aspect
// ratio. Text, labels, and logos are explicitly excluded; the overlay
// stage owns all typography.
func BuildPrompt(product brief.Product, target brief.Target, ratio string) string {
	framing, ok := framingHints[ratio]
	if !ok {
		framing = defaultFraming
	}
	return fmt.Sprintf(
		"Studio product hero photograph of '%s' for %s %s social ad. "+
			"Moody, premium lighting, clean backdrop, %s. "+
			"NO text, NO labels, NO logos, NO typography, NO captions, NO watermarks.",
		product.Name, target.Region, target.Audience, framing,
	)
}
