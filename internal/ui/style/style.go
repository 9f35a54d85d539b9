// Package style provides shared UI styling primitives including brand colors,
// node palettes and icons for consistent presentation across renderers.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mindmap/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Ink    = lipgloss.Color("#0B0F19")
	Mist   = lipgloss.Color("#F6F7FB")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check     = "✓"
	Cross     = "✗"
	Warning   = "!"
	Dot       = "●"
	Circle    = "○"
	Expanded  = "▾"
	Collapsed = "▸"
	Page      = "↗"
)

// KindColor returns the default fill of a node kind.
func KindColor(kind domain.NodeKind) lipgloss.Color {
	switch kind {
	case domain.KindRoot:
		return Iris
	case domain.KindSource:
		return Green
	default:
		return Slate
	}
}

var named = map[string]lipgloss.Color{
	"iris":   Iris,
	"slate":  Slate,
	"ink":    Ink,
	"mist":   Mist,
	"green":  Green,
	"red":    Red,
	"yellow": Yellow,
	"white":  White,
}

// NodeColor resolves a color token to a hex color. Hex tokens are used as they
// are, palette names map to brand colors, anything else falls back to the kind color.
func NodeColor(token domain.ColorToken, kind domain.NodeKind) lipgloss.Color {
	t := strings.TrimSpace(string(token))
	if isHex(t) {
		return lipgloss.Color(t)
	}
	if c, ok := named[strings.ToLower(t)]; ok {
		return c
	}
	return KindColor(kind)
}

func isHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
