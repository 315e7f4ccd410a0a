package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/UnendingLoop/Watermarker/internal/watermark"
	"github.com/disintegration/imaging"
)

func ImageWatermarker(b, o io.Reader, spec watermark.ImageSpec, format imaging.Format) (io.Reader, int64, error) {
	if b == nil {
		return nil, 0, errors.New("nil-reader baseIMG provided")
	}
	if o == nil {
		return nil, 0, errors.New("nil-reader overlayIMG provided")
	}

	base, err := imaging.Decode(b)
	if err != nil {
		return nil, 0, fmt.Errorf("decode base image: %w", err)
	}

	overlay, err := imaging.Decode(o)
	if err != nil {
		return nil, 0, fmt.Errorf("decode overlay image: %w", err)
	}
	spec.Overlay = overlay

	result, err := watermark.Apply(base, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("apply image watermark: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result, format); err != nil {
		return nil, 0, fmt.Errorf("encode result image: %w", err)
	}

	return &buf, int64(buf.Len()), nil
}
