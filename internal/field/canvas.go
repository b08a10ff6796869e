package field

import "image/color"

// Canvas is the 2D drawing surface the field paints into once per frame.
type Canvas interface {
	Clear()
	FillCircle(x, y, r float64, clr color.Color)
	// Glow draws a radial gradient of radius r that starts at clr in the
	// centre and fades to fully transparent at the rim.
	Glow(x, y, r float64, clr color.Color)
	Line(x1, y1, x2, y2, width float64, clr color.Color)
}
