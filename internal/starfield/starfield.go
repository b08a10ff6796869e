// Package starfield draws a static sky of twinkling stars behind the
// particle field.
package starfield

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	DefaultCount = 200

	maxStarSize   = 2.0
	twinkleMin    = 0.01
	twinkleSpread = 0.02
)

type Canvas interface {
	Clear()
	FillCircle(x, y, r float64, clr color.Color)
}

type Star struct {
	X, Y         float64
	Size         float64
	Opacity      float64
	TwinkleSpeed float64
}

type StarField struct {
	stars         []Star
	count         int
	width, height float64
	rng           *rand.Rand
}

func New(count int, width, height float64, rng *rand.Rand) *StarField {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	s := &StarField{count: max(count, 0), rng: rng}
	s.Resize(width, height)
	return s
}

// Resize scatters a fresh set of stars over the new bounds.
func (s *StarField) Resize(width, height float64) {
	s.width, s.height = width, height
	s.stars = make([]Star, s.count)
	for i := range s.stars {
		s.stars[i] = Star{
			X:            s.rng.Float64() * width,
			Y:            s.rng.Float64() * height,
			Size:         s.rng.Float64() * maxStarSize,
			Opacity:      s.rng.Float64(),
			TwinkleSpeed: twinkleMin + s.rng.Float64()*twinkleSpread,
		}
	}
}

// Update brightens or dims every star, bouncing at the ends of [0, 1].
func (s *StarField) Update() {
	for i := range s.stars {
		st := &s.stars[i]
		st.Opacity += st.TwinkleSpeed
		if st.Opacity > 1 || st.Opacity < 0 {
			st.TwinkleSpeed = -st.TwinkleSpeed
		}
	}
}

func (s *StarField) Draw(c Canvas) {
	c.Clear()
	for _, st := range s.stars {
		a := math.Min(math.Abs(st.Opacity), 1)
		c.FillCircle(st.X, st.Y, st.Size, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)})
	}
}
