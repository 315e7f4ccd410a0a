package watermark

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor parses "#rgb" and "#rrggbb" notations (leading '#' optional)
// into an opaque NRGBA. Transparency comes from the Opacity field,
// so any alpha digits in the input are rejected.
func ParseHexColor(s string) (color.NRGBA, error) {
	str := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(str) == 3 {
		str = fmt.Sprintf("%c%c%c%c%c%c", str[0], str[0], str[1], str[1], str[2], str[2])
	}
	if len(str) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}

	// DecodeString rejects any non-hex byte, unlike Sscanf which stops at
	// the first bad digit and accepts trailing garbage
	b, err := hex.DecodeString(str)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color format %q: %w", s, err)
	}

	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}, nil
}
