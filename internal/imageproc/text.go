// Package imageproc bridges byte streams and the watermark engine: it decodes
// the incoming images, runs the compositor and encodes the result back.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/UnendingLoop/Watermarker/internal/watermark"
	"github.com/disintegration/imaging"
)

func TextWatermarker(b io.Reader, spec watermark.TextSpec, format imaging.Format) (io.Reader, int64, error) {
	if b == nil {
		return nil, 0, errors.New("nil-reader baseIMG provided")
	}

	base, err := imaging.Decode(b)
	if err != nil {
		return nil, 0, fmt.Errorf("decode base image: %w", err)
	}

	result, err := watermark.Apply(base, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("apply text watermark: %w", err)
	}

	// JPEG/GIF encoding drops the alpha channel on its own
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result, format); err != nil {
		return nil, 0, fmt.Errorf("encode result image: %w", err)
	}

	return &buf, int64(buf.Len()), nil
}
