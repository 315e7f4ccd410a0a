package watermark

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Well-known font locations probed when the explicit path is empty or fails:
// Windows, Linux, macOS in that order.
var platformFontPaths = []string{
	"arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

type fontProvider func() (font.Face, error)

// fallbackProviders builds the resolution chain: the caller-supplied path
// first, then the platform list, then the bundled Go Regular which always
// parses. Providers are tried in order, first success wins.
func fallbackProviders(explicit string, size int) []fontProvider {
	providers := make([]fontProvider, 0, len(platformFontPaths)+2)
	if explicit != "" {
		providers = append(providers, func() (font.Face, error) { return loadFace(explicit, size) })
	}
	for _, p := range platformFontPaths {
		path := p
		providers = append(providers, func() (font.Face, error) { return loadFace(path, size) })
	}
	providers = append(providers, func() (font.Face, error) { return newFace(goregular.TTF, size) })
	return providers
}

// faceFromProviders returns the first face that loads. Failures of earlier
// providers are swallowed, not propagated.
func faceFromProviders(providers []fontProvider) (font.Face, error) {
	for _, provide := range providers {
		if face, err := provide(); err == nil {
			return face, nil
		}
	}
	return nil, ErrFontUnavailable
}

func loadFace(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newFace(data, size)
}

func newFace(ttf []byte, size int) (font.Face, error) {
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// rasterizeText renders text into a transparent layer sized to the string's
// bounding box. Glyph coverage times opacity*255 becomes the layer alpha, so
// the compositor must not apply opacity on top of it.
func rasterizeText(text, fontPath string, size int, col color.NRGBA, opacity float64) (*image.NRGBA, error) {
	face, err := faceFromProviders(fallbackProviders(fontPath, size))
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	// measurement and rendering share the same face, otherwise placement
	// drifts from the actual ink
	bounds, _ := font.BoundString(face, text)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("text %q has empty bounds: %w", text, ErrInvalidSpec)
	}

	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(math.Round(opacity * 255))}

	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(src),
		Face: face,
		// shift the pen so the ink's bounding box lands at the layer origin
		Dot: fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	d.DrawString(text)

	return layer, nil
}
