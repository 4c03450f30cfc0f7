// Package render turns message markdown into styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown. Fenced code blocks with a language hint are
// syntax highlighted; other code keeps the plain code style.
type Renderer struct {
	tr    *glamour.TermRenderer
	width int
}

// New builds a renderer for the named glamour style ("dark", "light",
// "notty", "auto", ...) wrapping at width columns.
func New(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{tr: tr, width: width}, nil
}

// Render returns md rendered for the terminal, or md unchanged if rendering
// fails.
func (r *Renderer) Render(md string) string {
	if r == nil || r.tr == nil {
		return md
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
