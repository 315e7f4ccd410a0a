package watermark

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func failingProvider(name string, calls *[]string) fontProvider {
	return func() (font.Face, error) {
		*calls = append(*calls, name)
		return nil, errors.New(name + " unavailable")
	}
}

func TestFaceFromProviders_FirstSuccessWins(t *testing.T) {
	var calls []string

	providers := []fontProvider{
		failingProvider("explicit", &calls),
		failingProvider("platform", &calls),
		func() (font.Face, error) {
			calls = append(calls, "builtin")
			return newFace(goregular.TTF, 24)
		},
	}

	face, err := faceFromProviders(providers)
	require.NoError(t, err)
	require.NotNil(t, face)
	// earlier failures must not leak out of the chain
	require.Equal(t, []string{"explicit", "platform", "builtin"}, calls)
}

func TestFaceFromProviders_AllFail(t *testing.T) {
	var calls []string

	_, err := faceFromProviders([]fontProvider{
		failingProvider("a", &calls),
		failingProvider("b", &calls),
		failingProvider("c", &calls),
	})
	require.ErrorIs(t, err, ErrFontUnavailable)
	require.Len(t, calls, 3)
}

func TestFallbackProviders_ExplicitPathGoesFirst(t *testing.T) {
	withExplicit := fallbackProviders("/some/font.ttf", 20)
	withoutExplicit := fallbackProviders("", 20)

	require.Len(t, withExplicit, len(platformFontPaths)+2)
	require.Len(t, withoutExplicit, len(platformFontPaths)+1)
}

func TestRasterizeText_FoldsOpacityIntoAlpha(t *testing.T) {
	layer, err := rasterizeText("Sample Watermark", "", 32, color.NRGBA{R: 255, G: 0, B: 0, A: 255}, 0.5)
	require.NoError(t, err)
	require.Positive(t, layer.Bounds().Dx())
	require.Positive(t, layer.Bounds().Dy())

	maxAlpha := uint8(0)
	for i := 3; i < len(layer.Pix); i += 4 {
		if layer.Pix[i] > maxAlpha {
			maxAlpha = layer.Pix[i]
		}
	}

	// glyph coverage times opacity*255: some ink must land, and no pixel
	// may exceed the folded opacity ceiling
	require.Positive(t, maxAlpha)
	require.LessOrEqual(t, maxAlpha, uint8(128))
}

func TestRasterizeText_BadExplicitPathFallsBack(t *testing.T) {
	layer, err := rasterizeText("mark", "/definitely/not/a/font.ttf", 24, color.NRGBA{A: 255}, 1.0)
	require.NoError(t, err)
	require.Positive(t, layer.Bounds().Dx())
}
