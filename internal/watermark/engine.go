// Package watermark implements the compositing core: placement math, overlay
// resampling, text rasterization, tiling and alpha blending. It operates on
// in-memory buffers only - decoding and encoding stay with the caller.
package watermark

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

var (
	ErrFontUnavailable = errors.New("no usable font in the fallback chain")
	ErrInvalidSource   = errors.New("overlay image is nil or zero-sized")
	ErrInvalidSpec     = errors.New("watermark spec is out of domain")
)

// Spec describes one watermark to composite - either a TextSpec or an
// ImageSpec.
type Spec interface {
	apply(base *image.NRGBA) (*image.NRGBA, error)
}

// TextSpec - a string rendered into a transparent glyph layer and placed once.
type TextSpec struct {
	Text     string
	FontPath string // optional explicit .ttf/.otf path, tried before the fallbacks
	FontSize int
	Color    color.NRGBA // alpha is ignored, Opacity drives it
	Opacity  float64
	Position Position
	Padding  int // <=0 means DefaultPadding
}

// ImageSpec - a raster overlay scaled per the Scale rule and placed once, or
// tiled across the canvas when Position is Tile.
type ImageSpec struct {
	Overlay  image.Image
	Scale    float64
	Opacity  float64
	Position Position
	Padding  int // <=0 means DefaultPadding
	Spacing  int // gap between tiles, <=0 means DefaultTileSpacing
}

// Apply composites the watermark described by spec onto base and returns a
// fresh buffer of the same dimensions. The caller's base is never mutated,
// and on error no partial result is returned.
func Apply(base image.Image, spec Spec) (*image.NRGBA, error) {
	if base == nil || base.Bounds().Dx() <= 0 || base.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("base image: %w", ErrInvalidSource)
	}
	if spec == nil {
		return nil, fmt.Errorf("nil spec: %w", ErrInvalidSpec)
	}
	return spec.apply(imaging.Clone(base))
}

func (s TextSpec) apply(base *image.NRGBA) (*image.NRGBA, error) {
	opacity, err := clampOpacity(s.Opacity)
	if err != nil {
		return nil, err
	}
	if s.Text == "" || s.FontSize <= 0 {
		return nil, fmt.Errorf("empty text or non-positive font size: %w", ErrInvalidSpec)
	}
	if s.Position == Tile {
		return nil, fmt.Errorf("tile position is legal for image overlays only: %w", ErrInvalidSpec)
	}

	layer, err := rasterizeText(s.Text, s.FontPath, s.FontSize, s.Color, opacity)
	if err != nil {
		return nil, err
	}

	at := Place(base.Bounds().Dx(), base.Bounds().Dy(),
		layer.Bounds().Dx(), layer.Bounds().Dy(), s.Position, padding(s.Padding))

	// opacity is already folded into the glyph alpha - composite at 1.0,
	// otherwise the text gets darkened twice
	return imaging.Overlay(base, layer, at, 1.0), nil
}

func (s ImageSpec) apply(base *image.NRGBA) (*image.NRGBA, error) {
	opacity, err := clampOpacity(s.Opacity)
	if err != nil {
		return nil, err
	}
	if s.Overlay == nil || s.Overlay.Bounds().Dx() <= 0 || s.Overlay.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("overlay: %w", ErrInvalidSource)
	}
	if math.IsNaN(s.Scale) {
		return nil, fmt.Errorf("scale is NaN: %w", ErrInvalidSpec)
	}

	fg := fitOverlay(s.Overlay, base.Bounds().Dx(), s.Scale)

	if s.Position == Tile {
		return tileOverlay(base, fg, spacing(s.Spacing), opacity), nil
	}

	at := Place(base.Bounds().Dx(), base.Bounds().Dy(),
		fg.Bounds().Dx(), fg.Bounds().Dy(), s.Position, padding(s.Padding))

	return imaging.Overlay(base, fg, at, opacity), nil
}

func clampOpacity(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("opacity is NaN: %w", ErrInvalidSpec)
	}
	return math.Min(1.0, math.Max(0.0, v)), nil
}

func padding(v int) int {
	if v <= 0 {
		return DefaultPadding
	}
	return v
}

func spacing(v int) int {
	if v <= 0 {
		return DefaultTileSpacing
	}
	return v
}
