package transport

import (
	"errors"
	"io"
	"log"

	"github.com/UnendingLoop/Watermarker/internal/model"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrResultNotReady):
		return 404
	case errors.Is(err, model.ErrIncorrectQuery),
		errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrIncorrectKind),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrEmptyOverlay),
		errors.Is(err, model.ErrEmptyText),
		errors.Is(err, model.ErrIncorrectFontSize),
		errors.Is(err, model.ErrIncorrectColor),
		errors.Is(err, model.ErrIncorrectOpacity),
		errors.Is(err, model.ErrIncorrectScale),
		errors.Is(err, model.ErrIncorrectPosition),
		errors.Is(err, model.ErrIncorrectStatus),
		errors.Is(err, model.ErrUnsupportedOverlayFormat),
		errors.Is(err, model.ErrUnsupportedFormat):
		return 400
	default:
		return 500
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
