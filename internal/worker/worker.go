// Package worker contains methods for worker to init at start, and to process watermark tasks
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"

	"github.com/UnendingLoop/Watermarker/internal/imageproc"
	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/UnendingLoop/Watermarker/internal/service"
	"github.com/UnendingLoop/Watermarker/internal/watermark"
	"github.com/disintegration/imaging"
	kafkago "github.com/segmentio/kafka-go"
	wbfkafka "github.com/wb-go/wbf/kafka"
)

type TaskWorkerService interface {
	UpdateStatus(ctx context.Context, id string, newStat model.Status) error
	MarkFailed(ctx context.Context, id string, reason string) error
	SaveResult(ctx context.Context, res *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
}

type Worker struct {
	storage      service.TaskStorage
	service      TaskWorkerService
	queue        <-chan kafkago.Message
	consumer     *wbfkafka.Consumer
	resultPrefix string
}

func NewWorkerInstance(strg service.TaskStorage, svc TaskWorkerService, q <-chan kafkago.Message, cons *wbfkafka.Consumer, resPr string) *Worker {
	return &Worker{storage: strg, service: svc, queue: q, consumer: cons, resultPrefix: resPr}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			id := string(msg.Key)
			if err := w.initProcessor(ctx, id); err != nil && !errors.Is(err, model.ErrTaskNotFound) {
				log.Printf("Task %s failed: %v", id, err)
				continue
			}
			if err := w.consumer.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

func (w *Worker) initProcessor(ctx context.Context, id string) error {
	// load the task record
	task, err := w.service.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("Worker failed to fetch task info %q from DB: %w", id, err)
	}
	// check status
	switch task.Status {
	case model.StatusDone:
		return nil
	case model.StatusInProgress:
		return fmt.Errorf("already in progress")
	}

	// a redelivered message may carry an already-finished task
	if strings.Contains(task.ResultKey, w.resultPrefix) {
		if err := w.service.UpdateStatus(ctx, id, model.StatusDone); err != nil {
			return fmt.Errorf("failed to update status of already-done task in DB: %w", err)
		}
		return nil
	}

	if err := w.service.UpdateStatus(ctx, id, model.StatusInProgress); err != nil {
		return fmt.Errorf("failed to update status of task %q to `in_progress` in DB: %w", id, err)
	}

	// run the actual compositing; a failed task keeps the reason
	if pErr := w.processTask(ctx, task); pErr != nil {
		if uErr := w.service.MarkFailed(ctx, id, pErr.Error()); uErr != nil {
			return fmt.Errorf("failed to set status of task %q to `failed` in DB: %w \nAFTER\n error while processing task: %w", id, uErr, pErr)
		}
		return fmt.Errorf("failed to process task %q: %w", id, pErr)
	}

	return nil
}

func (w *Worker) processTask(ctx context.Context, task *model.Task) error {
	// pull the sources from storage
	base, _, err := w.storage.Get(ctx, task.SourceKey)
	if err != nil {
		return fmt.Errorf("worker failed to fetch base-image from storage: %w", err)
	}
	defer closeFileFlow(base)

	var overlay io.ReadCloser
	if task.Kind == model.KindImage {
		overlay, _, err = w.storage.Get(ctx, task.OverlayKey)
		if err != nil {
			return fmt.Errorf("worker failed to fetch overlay-image from storage: %w", err)
		}
	}
	defer closeFileFlow(overlay)

	// the output format follows the source format
	pBase, format, err := validateImgFormat(base, false)
	if err != nil {
		return fmt.Errorf("worker failed to validate base-image format: %w", err)
	}

	var result io.Reader
	var size int64
	switch task.Kind {
	case model.KindText:
		col, cErr := watermark.ParseHexColor(task.Color)
		if cErr != nil {
			return fmt.Errorf("worker failed to parse watermark color: %w", cErr)
		}
		result, size, err = imageproc.TextWatermarker(pBase, watermark.TextSpec{
			Text:     task.Text,
			FontPath: task.FontPath,
			FontSize: task.FontSize,
			Color:    col,
			Opacity:  task.Opacity,
			Position: watermark.Position(task.Position),
		}, format)
		if err != nil {
			return fmt.Errorf("worker failed to apply text watermark: %w", err)
		}
	case model.KindImage:
		pOverlay, _, oErr := validateImgFormat(overlay, true)
		if oErr != nil {
			return fmt.Errorf("worker failed to validate overlay-image format: %w", oErr)
		}
		result, size, err = imageproc.ImageWatermarker(pBase, pOverlay, watermark.ImageSpec{
			Scale:    task.Scale,
			Opacity:  task.Opacity,
			Position: watermark.Position(task.Position),
		}, format)
		if err != nil {
			return fmt.Errorf("worker failed to apply image watermark: %w", err)
		}
	default:
		return model.ErrIncorrectKind
	}

	// store the result if compositing succeeded
	resCType := model.GetCType[format]
	resKey := w.resultPrefix + task.UID.String() + model.GetImageFileExt[resCType]
	if err := w.storage.Put(ctx, resKey, size, resCType, result); err != nil {
		return fmt.Errorf("worker failed to put result image to storage: %w", err)
	}

	task.Status = model.StatusDone
	task.ResultKey = resKey

	if err := w.service.SaveResult(ctx, task); err != nil {
		return fmt.Errorf("worker failed to save result to DB: %w", err)
	}
	return nil
}

func validateImgFormat(r io.ReadCloser, overlay bool) (io.Reader, imaging.Format, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader provided")
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, -1, err
	}

	_, f, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, -1, err
	}

	format, err := imaging.FormatFromExtension(f)
	if err != nil {
		return nil, -1, err
	}

	// overlays must keep their alpha channel
	if overlay && format != imaging.PNG {
		return nil, -1, model.ErrUnsupportedOverlayFormat
	}

	switch format {
	case imaging.PNG, imaging.JPEG, imaging.GIF:
	default:
		return nil, -1, model.ErrUnsupportedFormat
	}

	return bytes.NewReader(data), format, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}

	if err := res.Close(); err != nil {
		log.Println("Worker failed to close fileflow:", err)
	}
}
