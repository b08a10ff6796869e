package render

import "testing"

func TestGlowPixelsFalloff(t *testing.T) {
	img := glowPixels(glowTextureSize)
	centre := img.NRGBAAt(glowTextureSize/2, glowTextureSize/2).A
	mid := img.NRGBAAt(glowTextureSize/2+glowTextureSize/4, glowTextureSize/2).A
	corner := img.NRGBAAt(0, 0).A
	if centre < 245 {
		t.Fatalf("centre alpha=%d want near opaque", centre)
	}
	if mid <= corner || mid >= centre {
		t.Fatalf("alpha not decreasing outwards: centre=%d mid=%d corner=%d", centre, mid, corner)
	}
	if corner != 0 {
		t.Fatalf("corner alpha=%d want 0", corner)
	}
	for y := 0; y < glowTextureSize; y++ {
		for x := 0; x < glowTextureSize; x++ {
			p := img.NRGBAAt(x, y)
			if p.R != 255 || p.G != 255 || p.B != 255 {
				t.Fatalf("pixel (%d,%d) not white: %+v", x, y, p)
			}
		}
	}
}
