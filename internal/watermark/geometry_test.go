package watermark

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlace(t *testing.T) {
	// base 100x100, layer 20x20, padding 10
	tests := []struct {
		name string
		pos  Position
		want image.Point
	}{
		{"top left", TopLeft, image.Pt(10, 10)},
		{"top right", TopRight, image.Pt(70, 10)},
		{"bottom left", BottomLeft, image.Pt(10, 70)},
		{"bottom right", BottomRight, image.Pt(70, 70)},
		{"center", Center, image.Pt(40, 40)},
		{"unknown falls back to bottom right", Position("somewhere"), image.Pt(70, 70)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Place(100, 100, 20, 20, tt.pos, DefaultPadding))
		})
	}
}

func TestPlace_CenterIntegerDivision(t *testing.T) {
	require.Equal(t, image.Pt(39, 39), Place(99, 99, 20, 20, Center, DefaultPadding))
}

func TestPlace_OffCanvas(t *testing.T) {
	// layer bigger than the base: offsets go negative, clamping is the
	// compositor's job, not Place's
	require.Equal(t, image.Pt(-75, -75), Place(50, 50, 200, 200, Center, DefaultPadding))
	require.Equal(t, image.Pt(-160, 10), Place(50, 50, 200, 200, TopRight, DefaultPadding))
}
