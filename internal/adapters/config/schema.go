package config

import (
	"time"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Mindmapfile represents the structure of the mindmap.yaml configuration file.
// Sections that are left out keep their defaults.
type Mindmapfile struct {
	Version     string         `yaml:"version"`
	Graph       string         `yaml:"graph"`
	Store       string         `yaml:"store"`
	Sizing      SizingDTO      `yaml:"sizing"`
	Layout      LayoutDTO      `yaml:"layout"`
	Viewport    ViewportDTO    `yaml:"viewport"`
	Minimap     MinimapDTO     `yaml:"minimap"`
	Interaction InteractionDTO `yaml:"interaction"`
	Server      ServerDTO      `yaml:"server"`
}

// SizingDTO configures label wrapping and box sizes.
type SizingDTO struct {
	MaxLineChars int     `yaml:"maxLineChars"`
	GlyphWidth   float64 `yaml:"glyphWidth"`
	LineHeight   float64 `yaml:"lineHeight"`
	PaddingX     float64 `yaml:"paddingX"`
	PaddingY     float64 `yaml:"paddingY"`
	MinWidth     float64 `yaml:"minWidth"`
	MaxWidth     float64 `yaml:"maxWidth"`
	MinHeight    float64 `yaml:"minHeight"`
	Measurer     string  `yaml:"measurer"`
	FontSize     float64 `yaml:"fontSize"`
}

// LayoutDTO configures tree spacing and transitions.
type LayoutDTO struct {
	MinHorizontalSpacing float64       `yaml:"minHorizontalSpacing"`
	MinVerticalSpacing   float64       `yaml:"minVerticalSpacing"`
	Margin               float64       `yaml:"margin"`
	SiblingSeparation    float64       `yaml:"siblingSeparation"`
	CousinSeparation     float64       `yaml:"cousinSeparation"`
	BaselineWidth        float64       `yaml:"baselineWidth"`
	Transition           time.Duration `yaml:"transition"`
}

// ViewportDTO configures the main view.
type ViewportDTO struct {
	Width     float64       `yaml:"width"`
	Height    float64       `yaml:"height"`
	MinScale  float64       `yaml:"minScale"`
	MaxScale  float64       `yaml:"maxScale"`
	ZoomStep  float64       `yaml:"zoomStep"`
	Animation time.Duration `yaml:"animation"`
}

// MinimapDTO configures the overview canvas.
type MinimapDTO struct {
	Enabled bool    `yaml:"enabled"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Padding float64 `yaml:"padding"`
}

// InteractionDTO configures gesture recognition.
type InteractionDTO struct {
	DragThreshold float64       `yaml:"dragThreshold"`
	ClickGuard    time.Duration `yaml:"clickGuard"`
}

// ServerDTO configures the HTTP host.
type ServerDTO struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	FrameInterval  time.Duration `yaml:"frameInterval"`
}

// fromDomain seeds a file with the values of cfg so that decoding only
// overwrites what the file sets.
func fromDomain(cfg *domain.Config) Mindmapfile {
	return Mindmapfile{
		Graph: cfg.GraphPath,
		Store: cfg.StorePath,
		Sizing: SizingDTO{
			MaxLineChars: cfg.Sizing.MaxLineChars,
			GlyphWidth:   cfg.Sizing.GlyphWidth,
			LineHeight:   cfg.Sizing.LineHeight,
			PaddingX:     cfg.Sizing.PaddingX,
			PaddingY:     cfg.Sizing.PaddingY,
			MinWidth:     cfg.Sizing.MinWidth,
			MaxWidth:     cfg.Sizing.MaxWidth,
			MinHeight:    cfg.Sizing.MinHeight,
			Measurer:     cfg.Sizing.Measurer,
			FontSize:     cfg.Sizing.FontSize,
		},
		Layout: LayoutDTO{
			MinHorizontalSpacing: cfg.Layout.MinHorizontalSpacing,
			MinVerticalSpacing:   cfg.Layout.MinVerticalSpacing,
			Margin:               cfg.Layout.Margin,
			SiblingSeparation:    cfg.Layout.SiblingSeparation,
			CousinSeparation:     cfg.Layout.CousinSeparation,
			BaselineWidth:        cfg.Layout.BaselineWidth,
			Transition:           cfg.Layout.TransitionDuration,
		},
		Viewport: ViewportDTO{
			Width:     cfg.Viewport.Width,
			Height:    cfg.Viewport.Height,
			MinScale:  cfg.Viewport.MinScale,
			MaxScale:  cfg.Viewport.MaxScale,
			ZoomStep:  cfg.Viewport.ZoomStep,
			Animation: cfg.Viewport.AnimationDuration,
		},
		Minimap: MinimapDTO{
			Enabled: cfg.Minimap.Enabled,
			Width:   cfg.Minimap.Width,
			Height:  cfg.Minimap.Height,
			Padding: cfg.Minimap.Padding,
		},
		Interaction: InteractionDTO{
			DragThreshold: cfg.Interaction.DragThreshold,
			ClickGuard:    cfg.Interaction.ClickGuard,
		},
		Server: ServerDTO{
			Addr:           cfg.Server.Addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			FrameInterval:  cfg.Server.FrameInterval,
		},
	}
}

func (f *Mindmapfile) toDomain(root string) *domain.Config {
	return &domain.Config{
		GraphPath: f.Graph,
		Root:      root,
		StorePath: f.Store,
		Sizing: domain.SizingConfig{
			MaxLineChars: f.Sizing.MaxLineChars,
			GlyphWidth:   f.Sizing.GlyphWidth,
			LineHeight:   f.Sizing.LineHeight,
			PaddingX:     f.Sizing.PaddingX,
			PaddingY:     f.Sizing.PaddingY,
			MinWidth:     f.Sizing.MinWidth,
			MaxWidth:     f.Sizing.MaxWidth,
			MinHeight:    f.Sizing.MinHeight,
			Measurer:     f.Sizing.Measurer,
			FontSize:     f.Sizing.FontSize,
		},
		Layout: domain.LayoutConfig{
			MinHorizontalSpacing: f.Layout.MinHorizontalSpacing,
			MinVerticalSpacing:   f.Layout.MinVerticalSpacing,
			Margin:               f.Layout.Margin,
			SiblingSeparation:    f.Layout.SiblingSeparation,
			CousinSeparation:     f.Layout.CousinSeparation,
			BaselineWidth:        f.Layout.BaselineWidth,
			TransitionDuration:   f.Layout.Transition,
		},
		Viewport: domain.ViewportConfig{
			Width:             f.Viewport.Width,
			Height:            f.Viewport.Height,
			MinScale:          f.Viewport.MinScale,
			MaxScale:          f.Viewport.MaxScale,
			ZoomStep:          f.Viewport.ZoomStep,
			AnimationDuration: f.Viewport.Animation,
		},
		Minimap: domain.MinimapConfig{
			Enabled: f.Minimap.Enabled,
			Width:   f.Minimap.Width,
			Height:  f.Minimap.Height,
			Padding: f.Minimap.Padding,
		},
		Interaction: domain.InteractionConfig{
			DragThreshold: f.Interaction.DragThreshold,
			ClickGuard:    f.Interaction.ClickGuard,
		},
		Server: domain.ServerConfig{
			Addr:           f.Server.Addr,
			AllowedOrigins: f.Server.AllowedOrigins,
			FrameInterval:  f.Server.FrameInterval,
		},
	}
}

// GraphFileDTO represents a graph feed file. The same keys are used for YAML and JSON.
type GraphFileDTO struct {
	Nodes []NodeDTO `yaml:"nodes" json:"nodes"`
	Links []LinkDTO `yaml:"links" json:"links"`
}

// NodeDTO represents a node in a graph feed file.
type NodeDTO struct {
	ID    string  `yaml:"id"              json:"id"`
	Label string  `yaml:"label"           json:"label"`
	Color string  `yaml:"color,omitempty" json:"color,omitempty"`
	Kind  string  `yaml:"kind,omitempty"  json:"kind,omitempty"`
	Nav   *NavDTO `yaml:"nav,omitempty"   json:"nav,omitempty"`
}

// NavDTO represents a navigation reference. Pages are 1-based.
type NavDTO struct {
	Document string `yaml:"document"          json:"document"`
	Page     int    `yaml:"page"              json:"page"`
	Section  string `yaml:"section,omitempty" json:"section,omitempty"`
}

// LinkDTO represents a link in a graph feed file.
type LinkDTO struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	Source string `yaml:"source"       json:"source"`
	Target string `yaml:"target"       json:"target"`
}
