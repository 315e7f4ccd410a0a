package watermark

import (
	"image"

	"github.com/disintegration/imaging"
)

// fitOverlay resizes the overlay. A factor below 1 sizes the overlay as a
// fraction of the BASE width, a factor above 1 scales the overlay relative
// to its OWN width. Aspect ratio is preserved either way. Non-positive
// factors are treated as 1.0 - rejecting them is the caller's job.
func fitOverlay(overlay image.Image, baseW int, scale float64) image.Image {
	if scale <= 0 || scale == 1.0 {
		return overlay
	}

	var targetW int
	if scale < 1.0 {
		targetW = int(float64(baseW) * scale)
	} else {
		targetW = int(float64(overlay.Bounds().Dx()) * scale)
	}
	if targetW < 1 {
		targetW = 1
	}

	// height 0 preserves the overlay's aspect ratio; Lanczos keeps the
	// downscaled mark free of aliasing artifacts
	return imaging.Resize(overlay, targetW, 0, imaging.Lanczos)
}
