package service

import (
	"math"
	"strings"

	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/UnendingLoop/Watermarker/internal/watermark"
)

func validateQueryParams(req *model.ListRequest) {
	// Handle empty values, assign defaults where needed
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 30
	}
	if req.Sort == "" {
		req.Sort = model.ByCreated
	}
	if req.Order == "" {
		req.Order = model.OrderDESC
	}

	// Normalize the sort field
	req.Sort = strings.ToLower(req.Sort)
	req.Sort = strings.TrimSpace(req.Sort)
	switch {
	case strings.Contains(req.Sort, model.ByUUID):
		req.Sort = "task_uid"
	case strings.Contains(req.Sort, model.ByCreated):
		req.Sort = "created_at"
	default:
		req.Sort = "created_at" // newest-first by default
	}

	// Normalize the sort order
	req.Order = strings.ToLower(req.Order)
	req.Order = strings.TrimSpace(req.Order)
	switch {
	case strings.Contains(req.Order, model.OrderASC):
		req.Order = "ASC"
	case strings.Contains(req.Order, model.OrderDESC):
		req.Order = "DESC"
	default:
		req.Order = "DESC"
	}
}

func validateNormalizeTaskInfo(raw *model.TaskCreateData, clean *model.Task) error {
	// is the kind supported
	clean.Kind = model.Kind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if !model.KindsMap[clean.Kind] {
		return model.ErrIncorrectKind
	}

	// is the source sane
	if raw.OrigImg == nil || raw.OrigImgSize <= 0 || !model.InImageTypeMap[raw.OrigContentType] {
		return model.ErrEmptySource
	}

	// overlay is mandatory for image watermarks and must be PNG to carry alpha
	if clean.Kind == model.KindImage && (raw.OverlayImg == nil || raw.OverlayImgSize <= 0 || raw.OverlayContentType != model.PNG) {
		return model.ErrEmptyOverlay
	}

	if err := validateNormalizeLayout(raw, clean); err != nil {
		return err
	}

	switch clean.Kind {
	case model.KindText:
		return validateNormalizeTextParams(raw, clean)
	case model.KindImage:
		return validateNormalizeImageParams(raw, clean)
	}
	return nil
}

func validateNormalizeLayout(raw *model.TaskCreateData, clean *model.Task) error {
	opacity := model.DefaultOpacity
	if raw.Opacity != nil {
		opacity = *raw.Opacity
	}
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return model.ErrIncorrectOpacity
	}
	clean.Opacity = opacity

	pos := strings.ToLower(strings.TrimSpace(raw.Position))
	if pos == "" {
		pos = model.DefaultPosition
	}
	if !model.PositionsMap[pos] {
		return model.ErrIncorrectPosition
	}
	// tiling makes sense for image overlays only
	if pos == model.PositionTile && clean.Kind == model.KindText {
		return model.ErrIncorrectPosition
	}
	clean.Position = pos

	return nil
}

func validateNormalizeTextParams(raw *model.TaskCreateData, clean *model.Task) error {
	clean.Text = strings.TrimSpace(raw.Text)
	if clean.Text == "" {
		return model.ErrEmptyText
	}

	size := model.DefaultFontSize
	if raw.FontSize != nil {
		size = *raw.FontSize
	}
	if size <= 0 {
		return model.ErrIncorrectFontSize
	}
	clean.FontSize = size

	col := raw.Color
	if strings.TrimSpace(col) == "" {
		col = model.DefaultColor
	}
	if _, err := watermark.ParseHexColor(col); err != nil {
		return model.ErrIncorrectColor
	}
	clean.Color = col

	clean.FontPath = strings.TrimSpace(raw.FontPath)
	return nil
}

func validateNormalizeImageParams(raw *model.TaskCreateData, clean *model.Task) error {
	scale := model.DefaultScale
	if raw.Scale != nil {
		scale = *raw.Scale
	}
	if math.IsNaN(scale) || scale <= 0 {
		return model.ErrIncorrectScale
	}
	clean.Scale = scale

	return nil
}
