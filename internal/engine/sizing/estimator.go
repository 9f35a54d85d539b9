// Package sizing estimates node box sizes from label text.
package sizing

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
)

// GlyphMeasurer approximates line width as rune count times an average glyph width.
type GlyphMeasurer struct {
	GlyphWidth float64
}

// Width implements ports.TextMeasurer.
func (g GlyphMeasurer) Width(line string) float64 {
	return float64(utf8.RuneCountInString(line)) * g.GlyphWidth
}

// maxCachedLabels bounds the label cache. Renames keep adding labels, so the
// cache is dropped wholesale once it fills up.
const maxCachedLabels = 1024

type entry struct {
	label string
	lines []string
	size  domain.Size
}

// Estimator wraps labels into lines and derives a box size for them.
// The result depends only on the label text, so it is cached per label.
// An Estimator is not safe for concurrent use.
type Estimator struct {
	cfg      domain.SizingConfig
	measurer ports.TextMeasurer
	cache    map[uint64]entry
}

// New creates an Estimator. A nil measurer falls back to GlyphMeasurer.
func New(cfg domain.SizingConfig, measurer ports.TextMeasurer) *Estimator {
	if measurer == nil {
		measurer = GlyphMeasurer{GlyphWidth: cfg.GlyphWidth}
	}
	return &Estimator{
		cfg:      cfg,
		measurer: measurer,
		cache:    make(map[uint64]entry),
	}
}

// Size returns the box size for label.
func (e *Estimator) Size(label string) domain.Size {
	return e.lookup(label).size
}

// Lines returns the wrapped lines of label. The slice is a copy.
func (e *Estimator) Lines(label string) []string {
	return slices.Clone(e.lookup(label).lines)
}

func (e *Estimator) lookup(label string) entry {
	key := xxhash.Sum64String(label)
	if cached, ok := e.cache[key]; ok && cached.label == label {
		return cached
	}

	lines := Wrap(label, e.cfg.MaxLineChars)
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, e.measurer.Width(line))
	}

	size := domain.Size{
		Width:  clamp(widest+e.cfg.PaddingX, e.cfg.MinWidth, e.cfg.MaxWidth),
		Height: math.Max(float64(len(lines))*e.cfg.LineHeight+e.cfg.PaddingY, e.cfg.MinHeight),
	}

	if len(e.cache) >= maxCachedLabels {
		clear(e.cache)
	}
	ent := entry{label: label, lines: lines, size: size}
	e.cache[key] = ent
	return ent
}

// Wrap splits label on explicit newlines and greedily wraps every line longer
// than maxChars runes at whitespace. The bound is inclusive: a line of exactly
// maxChars runes is kept whole. Words are never split, so a single word longer
// than maxChars stays on its own line. The result has at least one line.
func Wrap(label string, maxChars int) []string {
	var out []string
	for raw := range strings.SplitSeq(label, "\n") {
		if maxChars <= 0 || utf8.RuneCountInString(raw) <= maxChars {
			out = append(out, raw)
			continue
		}

		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		current := words[0]
		currentLen := utf8.RuneCountInString(current)
		for _, w := range words[1:] {
			wl := utf8.RuneCountInString(w)
			if currentLen+1+wl <= maxChars {
				current += " " + w
				currentLen += 1 + wl
				continue
			}
			out = append(out, current)
			current, currentLen = w, wl
		}
		out = append(out, current)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
