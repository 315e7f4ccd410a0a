// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"io"
	"log"
	"strconv"

	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type TaskHandler struct {
	service TaskService
}

type TaskService interface {
	Create(ctx context.Context, newTask *model.TaskCreateData) (*model.Task, error)
	Delete(ctx context.Context, id string) error                               // removes from DB and from storage
	LoadResult(ctx context.Context, id string) (io.ReadCloser, string, error)  // streams the composited result
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) // paginated listing
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		service: svc,
	}
}

func (h TaskHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h TaskHandler) Create(ctx *ginext.Context) {
	var newTaskRaw model.TaskCreateData

	newTaskRaw.Kind = ctx.PostForm("kind")
	newTaskRaw.Text = ctx.PostForm("text")
	newTaskRaw.FontPath = ctx.PostForm("font_path")
	newTaskRaw.Color = ctx.PostForm("color")
	newTaskRaw.Position = ctx.PostForm("position")

	// numeric fields are optional - empty means "use the default"
	if v := ctx.PostForm("font_size"); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			ctx.JSON(400, map[string]string{"error": model.ErrIncorrectQuery.Error()})
			return
		}
		newTaskRaw.FontSize = &val
	}
	if v := ctx.PostForm("opacity"); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			ctx.JSON(400, map[string]string{"error": model.ErrIncorrectQuery.Error()})
			return
		}
		newTaskRaw.Opacity = &val
	}
	if v := ctx.PostForm("scale"); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			ctx.JSON(400, map[string]string{"error": model.ErrIncorrectQuery.Error()})
			return
		}
		newTaskRaw.Scale = &val
	}

	// base image is mandatory
	imageFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "image is required"})
		return
	}
	defer closeFileFlow(imageFile)
	newTaskRaw.OrigImg = imageFile
	newTaskRaw.OrigContentType = imageHeader.Header.Get("Content-Type")
	newTaskRaw.OrigImgSize = imageHeader.Size

	// overlay file - needed for image watermarks only
	wmFile, wmHeader, err := ctx.Request.FormFile("watermark")
	if err != nil {
		wmFile = nil
	} else {
		newTaskRaw.OverlayContentType = wmHeader.Header.Get("Content-Type")
		newTaskRaw.OverlayImgSize = wmHeader.Size
		defer closeFileFlow(wmFile)
	}
	newTaskRaw.OverlayImg = wmFile

	res, err := h.service.Create(ctx.Request.Context(), &newTaskRaw)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h TaskHandler) GetAllTasks(ctx *ginext.Context) {
	var req model.ListRequest

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse query-params"})
		return
	}

	res, err := h.service.GetList(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h TaskHandler) LoadResult(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, cType, err := h.service.LoadResult(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for task id %q: %v", n, id, err)
	}
}

func (h TaskHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")
	if err := h.service.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Status(204)
}
