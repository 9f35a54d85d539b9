// Package viewport owns the pan and zoom transform of the main view.
package viewport

import (
	"math"
	"time"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/engine/layout"
)

// wheelSensitivity converts wheel delta units to a zoom exponent.
const wheelSensitivity = 0.002

type animation struct {
	from, to domain.Transform
	start    time.Time
}

// Controller holds the viewport transform. Gestures apply immediately and cancel
// a running animation; commands (zoom in/out, center) animate.
type Controller struct {
	cfg     domain.ViewportConfig
	size    domain.Size
	current domain.Transform
	anim    *animation
}

// New creates a Controller with the identity transform.
func New(cfg domain.ViewportConfig) *Controller {
	return &Controller{
		cfg:     cfg,
		size:    cfg.Size(),
		current: domain.IdentityTransform(),
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() domain.Transform {
	return c.current
}

// Size returns the viewport size in screen units.
func (c *Controller) Size() domain.Size {
	return c.size
}

// Resize changes the viewport size. The transform is kept.
func (c *Controller) Resize(size domain.Size) {
	if size.Width > 0 && size.Height > 0 {
		c.size = size
	}
}

// Animating reports whether an animated command is in flight.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// Set replaces the transform, clamping its scale.
func (c *Controller) Set(t domain.Transform) {
	c.anim = nil
	t.K = c.clamp(t.K)
	c.current = t
}

// ZoomAt multiplies the scale by factor while keeping the screen point anchor fixed.
func (c *Controller) ZoomAt(factor float64, anchor domain.Point) domain.Transform {
	c.anim = nil
	c.current = c.zoomed(c.current, factor, anchor)
	return c.current
}

// Wheel zooms around anchor by a wheel delta. Negative deltas zoom in.
func (c *Controller) Wheel(deltaY float64, anchor domain.Point) domain.Transform {
	return c.ZoomAt(math.Pow(2, -deltaY*wheelSensitivity), anchor)
}

// ZoomIn animates a zoom step around the viewport center.
func (c *Controller) ZoomIn(now time.Time) {
	c.animateTo(now, c.zoomed(c.base(), c.cfg.ZoomStep, c.size.Center()))
}

// ZoomOut animates a zoom step out around the viewport center.
func (c *Controller) ZoomOut(now time.Time) {
	c.animateTo(now, c.zoomed(c.base(), 1/c.cfg.ZoomStep, c.size.Center()))
}

// CenterOn animates to scale 1 with the layout point p at the viewport center.
func (c *Controller) CenterOn(now time.Time, p domain.Point) {
	center := c.size.Center()
	c.animateTo(now, domain.Transform{X: center.X - p.X, Y: center.Y - p.Y, K: c.clamp(1)})
}

// Frame advances a running animation. It reports whether the transform changed.
func (c *Controller) Frame(now time.Time) (domain.Transform, bool) {
	if c.anim == nil {
		return c.current, false
	}

	progress := 1.0
	if elapsed := now.Sub(c.anim.start); elapsed < c.cfg.AnimationDuration {
		progress = max(float64(elapsed)/float64(c.cfg.AnimationDuration), 0)
	}

	if progress >= 1 {
		c.current = c.anim.to
		c.anim = nil
		return c.current, true
	}
	c.current = c.anim.from.Lerp(c.anim.to, layout.CubicInOut(progress))
	return c.current, true
}

func (c *Controller) animateTo(now time.Time, to domain.Transform) {
	if c.cfg.AnimationDuration <= 0 {
		c.anim = nil
		c.current = to
		return
	}
	c.anim = &animation{from: c.current, to: to, start: now}
}

// base is the transform further commands compound on.
func (c *Controller) base() domain.Transform {
	if c.anim != nil {
		return c.anim.to
	}
	return c.current
}

func (c *Controller) zoomed(t domain.Transform, factor float64, anchor domain.Point) domain.Transform {
	k := c.clamp(t.K * factor)
	focus := t.Invert(anchor)
	return domain.Transform{
		X: anchor.X - focus.X*k,
		Y: anchor.Y - focus.Y*k,
		K: k,
	}
}

func (c *Controller) clamp(k float64) float64 {
	return math.Min(math.Max(k, c.cfg.MinScale), c.cfg.MaxScale)
}
