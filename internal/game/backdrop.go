package game

import (
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	backdropBand     = 4 // px per gradient band
	backdropBaseHue  = 225.0
	backdropHueSwing = 20.0
)

// backdropColor is the night-sky gradient at vertical position ratio in
// [0,1] and time t in seconds: deep navy at the top easing to near black,
// with the hue breathing slowly.
func backdropColor(t, ratio float64) color.RGBA {
	hue := backdropBaseHue + backdropHueSwing*math.Sin(t*0.1+ratio*math.Pi)
	hue = math.Mod(hue+360, 360)
	value := 0.16 - 0.12*ratio
	r, g, b, err := colorconv.HSVToRGB(hue, 0.7, value)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (g *Game) drawBackdrop(screen *ebiten.Image) {
	w, h := g.width, g.height
	t := g.elapsed.Seconds()
	for y := 0; y < h; y += backdropBand {
		ratio := float64(y) / float64(h)
		vector.DrawFilledRect(screen, 0, float32(y), float32(w), backdropBand, backdropColor(t, ratio), false)
	}
}
