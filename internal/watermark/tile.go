package watermark

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultTileSpacing - gap in pixels between repeated overlay tiles.
const DefaultTileSpacing = 20

// tileOverlay repeats fg across the whole canvas, stepping by the overlay
// size plus spacing. Tiles hanging off the right/bottom edge are clipped by
// Overlay's bounds intersection, not skipped, so the canvas edge is covered.
func tileOverlay(base *image.NRGBA, fg image.Image, spacing int, opacity float64) *image.NRGBA {
	fgW := fg.Bounds().Dx()
	fgH := fg.Bounds().Dy()
	if fgW <= 0 || fgH <= 0 {
		return base
	}

	out := base
	for y := 0; y < base.Bounds().Dy(); y += fgH + spacing {
		for x := 0; x < base.Bounds().Dx(); x += fgW + spacing {
			out = imaging.Overlay(out, fg, image.Pt(x, y), opacity)
		}
	}
	return out
}
