// Package textmetrics measures label text with a real font.
package textmetrics

import (
	"sync"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts holds the parsed Go Regular font.
type Fonts struct {
	font *opentype.Font
}

// NewFonts parses the embedded font.
func NewFonts() (*Fonts, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	return &Fonts{font: f}, nil
}

// Measurer returns the measurer selected by cfg. The glyph measurer is
// reported as nil so the sizing estimator uses its own default.
func (f *Fonts) Measurer(cfg domain.SizingConfig) (ports.TextMeasurer, error) {
	if cfg.Measurer != "opentype" {
		return nil, nil
	}
	m, err := f.NewMeasurer(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMeasurer creates a measurer at the given size in points (72 DPI, so one point is one layout unit).
func (f *Fonts) NewMeasurer(size float64) (*Measurer, error) {
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		err = zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
		return nil, zerr.With(err, "size", size)
	}
	return &Measurer{face: face}, nil
}

// Measurer implements ports.TextMeasurer with an opentype face.
// A face keeps a glyph cache, so access is serialized.
type Measurer struct {
	mu   sync.Mutex
	face font.Face
}

// Width implements ports.TextMeasurer.
func (m *Measurer) Width(line string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	adv := font.MeasureString(m.face, line)
	return float64(adv) / 64
}

// Close releases the face.
func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Close()
}
