package game

import (
	"image/color"
	"math"

	"github.com/iburimskiy/particle-field/internal/field"
)

const (
	bulletWidth  = 3.0
	bulletHead   = 3.0
	bulletStreak = 0.25 // streak length as a share of the flight path
)

var colorBullet = color.NRGBA{R: 255, G: 214, B: 102, A: 255}

// bulletOrigin is where every shot leaves from: the bottom centre.
func (g *Game) bulletOrigin() (float64, float64) {
	return float64(g.width) / 2, float64(g.height)
}

// bulletSegment is the visible streak of the shot in flight, tail to head.
// Past impact the head stays on the letter while the tail catches up.
func (g *Game) bulletSegment() (x1, y1, x2, y2 float64, ok bool) {
	target, progress, ok := g.intro.Bullet()
	if !ok {
		return 0, 0, 0, 0, false
	}
	head := math.Min(progress, 1)
	tail := math.Min(math.Max(progress-bulletStreak, 0), 1)
	if tail >= head {
		return 0, 0, 0, 0, false
	}
	ox, oy := g.bulletOrigin()
	tx, ty := g.LetterCenter(target)
	lerp := func(t float64) (float64, float64) {
		return ox + (tx-ox)*t, oy + (ty-oy)*t
	}
	x1, y1 = lerp(tail)
	x2, y2 = lerp(head)
	return x1, y1, x2, y2, true
}

func (g *Game) drawBullet(c field.Canvas) {
	x1, y1, x2, y2, ok := g.bulletSegment()
	if !ok {
		return
	}
	c.Line(x1, y1, x2, y2, bulletWidth, colorBullet)
	c.FillCircle(x2, y2, bulletHead, colorBullet)
}
