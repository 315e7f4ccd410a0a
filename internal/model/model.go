// Package model provides data-structs for internal app-usage
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type (
	Status string
	Kind   string
)

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusFailed     Status = "failed"
	StatusDone       Status = "done"
)

var StatusMap = map[Status]bool{
	StatusCreated:    true,
	StatusInProgress: true,
	StatusFailed:     true,
	StatusDone:       true,
}

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

var KindsMap = map[Kind]bool{
	KindText:  true,
	KindImage: true,
}

const (
	PositionTopLeft     = "top_left"
	PositionTopRight    = "top_right"
	PositionBottomLeft  = "bottom_left"
	PositionBottomRight = "bottom_right"
	PositionCenter      = "center"
	PositionTile        = "tile"
)

var PositionsMap = map[string]bool{
	PositionTopLeft:     true,
	PositionTopRight:    true,
	PositionBottomLeft:  true,
	PositionBottomRight: true,
	PositionCenter:      true,
	PositionTile:        true,
}

// Defaults applied when the request omits optional fields
const (
	DefaultOpacity  = 0.5
	DefaultScale    = 0.2
	DefaultFontSize = 50
	DefaultColor    = "#ffffff"
	DefaultPosition = PositionBottomRight
)

//---------------------

type Task struct {
	UID        uuid.UUID   `json:"uid"`
	SourceKey  string      `json:"-"`
	OverlayKey string      `json:"-"`
	ResultKey  string      `json:"-"`
	Kind       Kind        `json:"kind"`
	Text       string      `json:"text,omitempty"`
	FontPath   string      `json:"-"`
	FontSize   int         `json:"font_size,omitempty"`
	Color      string      `json:"color,omitempty"`
	Opacity    float64     `json:"opacity"`
	Scale      float64     `json:"scale,omitempty"`
	Position   string      `json:"position"`
	Status     Status      `json:"status,omitempty"`
	ErrMsg     StringSlice `json:"error,omitempty"`
	CreatedAt  *time.Time  `json:"created_at,omitempty"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

//-------------------

type ListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Sort  string `form:"sort"`
	Order string `form:"order"`
}

const (
	ByUUID    = "uid"
	ByCreated = "created"
	OrderASC  = "ascend"
	OrderDESC = "descend"
)

// TaskCreateData - raw multipart input assembled by the transport layer;
// pointers distinguish "absent" from "zero" so validation can apply defaults.
type TaskCreateData struct {
	Kind     string
	Text     string
	FontPath string
	FontSize *int
	Color    string
	Opacity  *float64
	Scale    *float64
	Position string

	OrigImg         multipart.File
	OrigContentType string
	OrigImgSize     int64

	OverlayImg         multipart.File
	OverlayContentType string
	OverlayImgSize     int64
}

// ------------------

var (
	ErrCommon500                error = errors.New("something went wrong. Try again later") // 500
	ErrIncorrectQuery           error = errors.New("incorrect query parameters")            // 400
	ErrIncorrectID              error = errors.New("incorrect task UUID")                   // 400
	ErrTaskNotFound             error = errors.New("specified task UUID doesn't exist")     // 404
	ErrResultNotReady           error = errors.New("requested task is not processed yet")   // 404
	ErrIncorrectKind            error = errors.New("watermark kind is not supported")       // 400
	ErrEmptySource              error = errors.New("empty/incorrect source image provided") // 400
	ErrEmptyOverlay             error = errors.New("empty/incorrect overlay provided")      // 400
	ErrEmptyText                error = errors.New("watermark text must not be empty")      // 400
	ErrIncorrectFontSize        error = errors.New("font size must be positive")            // 400
	ErrIncorrectColor           error = errors.New("incorrect font color provided")         // 400
	ErrIncorrectOpacity         error = errors.New("opacity must be within 0.0-1.0")        // 400
	ErrIncorrectScale           error = errors.New("scale factor must be positive")         // 400
	ErrIncorrectPosition        error = errors.New("incorrect position provided")           // 400
	ErrIncorrectStatus          error = errors.New("incorrect status provided")             // 400
	ErrUnsupportedOverlayFormat error = errors.New("unsupported overlay-image format")      // 400
	ErrUnsupportedFormat        error = errors.New("unsupported base image format")         // 400
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}

var InImageTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	GIF:  true,
}

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.GIF:  GIF,
	imaging.PNG:  PNG,
}

//--------------------

type StringSlice []string

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("invalid type for StringSlice")
	}

	if err := json.Unmarshal(b, s); err != nil {
		return fmt.Errorf("failed to unmarshal JSONB to []StringSlice: %w", err)
	}
	return nil
}

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 || s == nil {
		return []byte(`[]`), nil
	}
	res, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal []StringSlice to JSONB: %w", err)
	}

	return res, nil
}
