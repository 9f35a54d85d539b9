package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// SizingConfig controls how label text maps to box sizes.
type SizingConfig struct {
	MaxLineChars int
	GlyphWidth   float64
	LineHeight   float64
	PaddingX     float64
	PaddingY     float64
	MinWidth     float64
	MaxWidth     float64
	MinHeight    float64
	// Measurer selects the text measurer: "glyph" or "opentype".
	Measurer string
	// FontSize is used by the opentype measurer.
	FontSize float64
}

// LayoutConfig controls spacing and transitions of the tree layout.
type LayoutConfig struct {
	MinHorizontalSpacing float64
	MinVerticalSpacing   float64
	Margin               float64
	SiblingSeparation    float64
	CousinSeparation     float64
	BaselineWidth        float64
	TransitionDuration   time.Duration
}

// ViewportConfig controls the zoom behavior of the main view.
type ViewportConfig struct {
	Width             float64
	Height            float64
	MinScale          float64
	MaxScale          float64
	ZoomStep          float64
	AnimationDuration time.Duration
}

// Size returns the viewport dimensions.
func (c ViewportConfig) Size() Size {
	return Size{Width: c.Width, Height: c.Height}
}

// MinimapConfig controls the overview canvas.
type MinimapConfig struct {
	Enabled bool
	Width   float64
	Height  float64
	Padding float64
}

// InteractionConfig controls gesture recognition.
type InteractionConfig struct {
	DragThreshold float64
	ClickGuard    time.Duration
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	FrameInterval  time.Duration
}

// Config is the resolved configuration of a mindmap project.
type Config struct {
	// GraphPath is the graph feed file, relative to Root unless absolute.
	GraphPath string
	// Root is the directory holding the config file (or the working directory).
	Root        string
	StorePath   string
	Sizing      SizingConfig
	Layout      LayoutConfig
	Viewport    ViewportConfig
	Minimap     MinimapConfig
	Interaction InteractionConfig
	Server      ServerConfig
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		GraphPath: DefaultGraphFileName,
		Root:      ".",
		StorePath: DefaultStorePath(),
		Sizing: SizingConfig{
			MaxLineChars: 25,
			GlyphWidth:   8,
			LineHeight:   18,
			PaddingX:     24,
			PaddingY:     16,
			MinWidth:     80,
			MaxWidth:     260,
			MinHeight:    40,
			Measurer:     "glyph",
			FontSize:     13,
		},
		Layout: LayoutConfig{
			MinHorizontalSpacing: 220,
			MinVerticalSpacing:   70,
			Margin:               40,
			SiblingSeparation:    1,
			CousinSeparation:     1.5,
			BaselineWidth:        150,
			TransitionDuration:   250 * time.Millisecond,
		},
		Viewport: ViewportConfig{
			Width:             1280,
			Height:            800,
			MinScale:          0.5,
			MaxScale:          2,
			ZoomStep:          1.2,
			AnimationDuration: 300 * time.Millisecond,
		},
		Minimap: MinimapConfig{
			Enabled: true,
			Width:   200,
			Height:  150,
			Padding: 10,
		},
		Interaction: InteractionConfig{
			DragThreshold: 3,
			ClickGuard:    150 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
			FrameInterval:  16 * time.Millisecond,
		},
	}
}

// Validate checks that every value is usable.
//
//nolint:cyclop // flat list of range checks
func (c *Config) Validate() error {
	invalid := func(field string, value any) error {
		err := zerr.With(ErrConfigInvalid, "field", field)
		return zerr.With(err, "value", value)
	}

	switch {
	case c.Sizing.MaxLineChars < 1:
		return invalid("sizing.maxLineChars", c.Sizing.MaxLineChars)
	case c.Sizing.GlyphWidth <= 0:
		return invalid("sizing.glyphWidth", c.Sizing.GlyphWidth)
	case c.Sizing.LineHeight <= 0:
		return invalid("sizing.lineHeight", c.Sizing.LineHeight)
	case c.Sizing.MinWidth <= 0 || c.Sizing.MaxWidth < c.Sizing.MinWidth:
		return invalid("sizing.maxWidth", c.Sizing.MaxWidth)
	case c.Sizing.Measurer != "glyph" && c.Sizing.Measurer != "opentype":
		return invalid("sizing.measurer", c.Sizing.Measurer)
	case c.Layout.BaselineWidth <= 0:
		return invalid("layout.baselineWidth", c.Layout.BaselineWidth)
	case c.Layout.SiblingSeparation <= 0 || c.Layout.CousinSeparation <= 0:
		return invalid("layout.separation", c.Layout.SiblingSeparation)
	case c.Layout.TransitionDuration < 0:
		return invalid("layout.transition", c.Layout.TransitionDuration)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return invalid("viewport.size", c.Viewport.Size())
	case c.Viewport.MinScale <= 0 || c.Viewport.MaxScale < c.Viewport.MinScale:
		return invalid("viewport.scale", c.Viewport.MaxScale)
	case c.Viewport.ZoomStep <= 1:
		return invalid("viewport.zoomStep", c.Viewport.ZoomStep)
	case c.Minimap.Width <= 0 || c.Minimap.Height <= 0:
		return invalid("minimap.size", c.Minimap.Width)
	case c.Minimap.Padding < 0 || 2*c.Minimap.Padding >= c.Minimap.Width || 2*c.Minimap.Padding >= c.Minimap.Height:
		return invalid("minimap.padding", c.Minimap.Padding)
	case c.Interaction.DragThreshold < 0:
		return invalid("interaction.dragThreshold", c.Interaction.DragThreshold)
	case c.Server.FrameInterval <= 0:
		return invalid("server.frameInterval", c.Server.FrameInterval)
	}
	return nil
}
