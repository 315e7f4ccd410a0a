package watermark

import "image"

// Position of the watermark layer on the base canvas.
type Position string

const (
	TopLeft     Position = "top_left"
	TopRight    Position = "top_right"
	BottomLeft  Position = "bottom_left"
	BottomRight Position = "bottom_right"
	Center      Position = "center"
	Tile        Position = "tile"
)

// DefaultPadding - distance in pixels between a corner placement and the
// canvas edge.
const DefaultPadding = 10

// Place computes the top-left offset of a foreground layer of fgW x fgH on a
// base canvas of baseW x baseH. Offsets may be negative or exceed the canvas
// when the layer is bigger than the base - Place never clamps, the compositor
// clips instead. An unrecognized position falls back to the bottom-right
// corner.
func Place(baseW, baseH, fgW, fgH int, pos Position, padding int) image.Point {
	switch pos {
	case TopLeft:
		return image.Pt(padding, padding)
	case TopRight:
		return image.Pt(baseW-fgW-padding, padding)
	case BottomLeft:
		return image.Pt(padding, baseH-fgH-padding)
	case BottomRight:
		return image.Pt(baseW-fgW-padding, baseH-fgH-padding)
	case Center:
		return image.Pt((baseW-fgW)/2, (baseH-fgH)/2)
	}
	return image.Pt(baseW-fgW-padding, baseH-fgH-padding)
}
