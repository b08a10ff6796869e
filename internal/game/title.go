package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/particle-field/internal/intro"
)

const (
	glyphAdvance = 7.0  // basicfont.Face7x13 advance
	glyphHeight  = 13.0 // basicfont.Face7x13 height
	titleRow     = 0.4  // vertical position as a share of screen height
	maxTitleFill = 0.8  // widest the title may get as a share of screen width
	maxTitleZoom = 6.0
)

var (
	titleFace = text.NewGoXFace(basicfont.Face7x13)

	colorTitle         = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorTitleComplete = color.NRGBA{R: 255, G: 107, B: 53, A: 255}
	colorFlash         = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// titleZoom picks the glyph scale so the whole title fits the screen.
func (g *Game) titleZoom() float64 {
	n := len(g.title)
	if n == 0 {
		return 1
	}
	z := maxTitleFill * float64(g.width) / (float64(n) * glyphAdvance)
	if z > maxTitleZoom {
		z = maxTitleZoom
	}
	if z < 1 {
		z = 1
	}
	return z
}

// LetterCenter is where letter i of the title is drawn.
func (g *Game) LetterCenter(i int) (float64, float64) {
	z := g.titleZoom()
	n := len(g.title)
	left := (float64(g.width) - float64(n)*glyphAdvance*z) / 2
	return left + (float64(i)+0.5)*glyphAdvance*z, float64(g.height) * titleRow
}

func (g *Game) TitleCenter() (float64, float64) {
	return float64(g.width) / 2, float64(g.height) * titleRow
}

func (g *Game) drawTitle(screen *ebiten.Image, dx, dy float64) {
	clr := colorTitle
	if g.intro.Phase() >= intro.PhaseComplete {
		clr = colorTitleComplete
	}
	z := g.titleZoom()
	for i, r := range []rune(g.intro.Revealed()) {
		s := g.intro.LetterScale(i) * z
		if s <= 0 {
			continue
		}
		cx, cy := g.LetterCenter(i)
		op := &text.DrawOptions{}
		op.GeoM.Translate(-glyphAdvance/2, -glyphHeight/2)
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(cx+dx, cy+dy)
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, string(r), titleFace, op)
	}
}
