package field

import "image/color"

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min, Max float64
}

// Sample returns a value uniformly drawn from the range using u in [0,1).
func (r Range) Sample(u float64) float64 {
	return r.Min + u*(r.Max-r.Min)
}

// Color is an opaque RGB triple. Alpha comes from each particle's opacity.
type Color struct {
	R, G, B uint8
}

// WithAlpha returns the colour as a non-premultiplied NRGBA with alpha a in [0,1].
func (c Color) WithAlpha(a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(a)*255 + 0.5)}
}

// Config describes the ambient particle set.
type Config struct {
	ParticleCount      int
	ParticleSize       Range
	Speed              Range
	Opacity            Range
	ConnectionDistance float64
	MouseInteraction   bool
	MouseRadius        float64
	Color              Color
	Drift              bool
}

func DefaultConfig() Config {
	return Config{
		ParticleCount:      80,
		ParticleSize:       Range{Min: 0.5, Max: 2},
		Speed:              Range{Min: 0.1, Max: 0.4},
		Opacity:            Range{Min: 0.2, Max: 0.6},
		ConnectionDistance: 120,
		MouseInteraction:   true,
		MouseRadius:        150,
		Color:              Color{R: 255, G: 255, B: 255},
		Drift:              true,
	}
}

// Patch is a partial Config. Nil fields leave the current value alone.
type Patch struct {
	ParticleCount      *int
	ParticleSize       *Range
	Speed              *Range
	Opacity            *Range
	ConnectionDistance *float64
	MouseInteraction   *bool
	MouseRadius        *float64
	Color              *Color
	Drift              *bool
}

// Empty reports whether the patch carries no overrides.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Merge returns c with every non-nil field of p applied.
func (c Config) Merge(p Patch) Config {
	if p.ParticleCount != nil {
		c.ParticleCount = *p.ParticleCount
	}
	if p.ParticleSize != nil {
		c.ParticleSize = *p.ParticleSize
	}
	if p.Speed != nil {
		c.Speed = *p.Speed
	}
	if p.Opacity != nil {
		c.Opacity = *p.Opacity
	}
	if p.ConnectionDistance != nil {
		c.ConnectionDistance = *p.ConnectionDistance
	}
	if p.MouseInteraction != nil {
		c.MouseInteraction = *p.MouseInteraction
	}
	if p.MouseRadius != nil {
		c.MouseRadius = *p.MouseRadius
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Drift != nil {
		c.Drift = *p.Drift
	}
	return c
}

// countFor returns how many ambient particles a viewport of the given width gets.
func (c Config) countFor(width float64) int {
	n := c.ParticleCount
	if width < NarrowWidth {
		n /= 2
	}
	if n < 0 {
		return 0
	}
	return n
}

// Ptr is a small helper for building patches: field.Patch{Drift: field.Ptr(false)}.
func Ptr[T any](v T) *T {
	return &v
}
