package starfield

import (
	"image/color"
	"math/rand"
	"testing"
)

type countingCanvas struct {
	clears, circles int
}

func (c *countingCanvas) Clear() { c.clears++ }

func (c *countingCanvas) FillCircle(_, _, _ float64, _ color.Color) {
	c.circles++
}

func TestNewScattersStarsInBounds(t *testing.T) {
	s := New(DefaultCount, 640, 480, rand.New(rand.NewSource(7)))
	if len(s.stars) != DefaultCount {
		t.Fatalf("stars=%d want %d", len(s.stars), DefaultCount)
	}
	for i, st := range s.stars {
		if st.X < 0 || st.X >= 640 || st.Y < 0 || st.Y >= 480 {
			t.Fatalf("star %d at (%f,%f)", i, st.X, st.Y)
		}
		if st.Size < 0 || st.Size >= maxStarSize {
			t.Fatalf("star %d size %f", i, st.Size)
		}
		if st.TwinkleSpeed < twinkleMin || st.TwinkleSpeed >= twinkleMin+twinkleSpread {
			t.Fatalf("star %d twinkle %f", i, st.TwinkleSpeed)
		}
	}
}

func TestTwinkleBouncesAtEnds(t *testing.T) {
	s := New(1, 10, 10, rand.New(rand.NewSource(1)))
	s.stars[0] = Star{Opacity: 0.995, TwinkleSpeed: 0.02}
	s.Update()
	if s.stars[0].TwinkleSpeed != -0.02 {
		t.Fatalf("speed %f want reversed", s.stars[0].TwinkleSpeed)
	}
	for i := 0; i < 200; i++ {
		s.Update()
		if o := s.stars[0].Opacity; o < -0.05 || o > 1.05 {
			t.Fatalf("opacity drifted to %f", o)
		}
	}
}

func TestDrawClearsThenPaintsEveryStar(t *testing.T) {
	s := New(25, 100, 100, rand.New(rand.NewSource(3)))
	c := &countingCanvas{}
	s.Draw(c)
	if c.clears != 1 || c.circles != 25 {
		t.Fatalf("clears=%d circles=%d", c.clears, c.circles)
	}
}

func TestNegativeCount(t *testing.T) {
	s := New(-4, 100, 100, nil)
	if len(s.stars) != 0 {
		t.Fatalf("stars=%d want 0", len(s.stars))
	}
}
