// Package render paints into offscreen ebiten layers that the host composes
// onto the screen each frame.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const glowTextureSize = 64

// LayerCanvas is an offscreen image sized to the viewport.
type LayerCanvas struct {
	layer *ebiten.Image
	glow  *ebiten.Image
}

func NewLayerCanvas(width, height int) *LayerCanvas {
	return &LayerCanvas{
		layer: ebiten.NewImage(max(width, 1), max(height, 1)),
		glow:  ebiten.NewImageFromImage(glowPixels(glowTextureSize)),
	}
}

// Resize reallocates the layer when the viewport changes. A no-op when the
// size is unchanged.
func (c *LayerCanvas) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	b := c.layer.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	c.layer.Deallocate()
	c.layer = ebiten.NewImage(width, height)
}

func (c *LayerCanvas) Clear() { c.layer.Clear() }

func (c *LayerCanvas) FillCircle(x, y, r float64, clr color.Color) {
	vector.DrawFilledCircle(c.layer, float32(x), float32(y), float32(r), clr, true)
}

// Glow stretches the radial falloff texture over a 2r square and tints it.
func (c *LayerCanvas) Glow(x, y, r float64, clr color.Color) {
	if r <= 0 {
		return
	}
	scale := 2 * r / glowTextureSize
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x-r, y-r)
	op.ColorScale.ScaleWithColor(clr)
	op.Filter = ebiten.FilterLinear
	c.layer.DrawImage(c.glow, op)
}

func (c *LayerCanvas) Line(x1, y1, x2, y2, width float64, clr color.Color) {
	vector.StrokeLine(c.layer, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), clr, true)
}

// DrawTo composites the layer onto dst shifted by (dx, dy).
func (c *LayerCanvas) DrawTo(dst *ebiten.Image, dx, dy float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(dx, dy)
	dst.DrawImage(c.layer, op)
}

// glowPixels builds a white disc whose alpha falls linearly from 1 at the
// centre to 0 at the rim, matching a two-stop radial gradient.
func glowPixels(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			a := 1 - d/c
			if a < 0 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)})
		}
	}
	return img
}
