// Package service provides business-logic for the app
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/UnendingLoop/Watermarker/internal/mwlogger"
	"github.com/UnendingLoop/Watermarker/internal/repository"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

type TaskService struct {
	repo          repository.TaskRepo
	publisher     TaskPublisher
	storage       TaskStorage
	srcKeyPrefix  string
	overlayPrefix string
}

func NewTaskService(taskRepo repository.TaskRepo, pub TaskPublisher, strg TaskStorage) *TaskService {
	return &TaskService{
		repo:          taskRepo,
		publisher:     pub,
		storage:       strg,
		srcKeyPrefix:  "src/",
		overlayPrefix: "wm/",
	}
}

// TaskPublisher - queue contract
type TaskPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// TaskStorage - object-storage contract
type TaskStorage interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// Queue publish retry strategy - candidate for moving to config/env
var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    3 * time.Second,
	Backoff:  1.5,
}

func (c TaskService) Create(ctx context.Context, taskData *model.TaskCreateData) (*model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	newTask := &model.Task{}

	// validate kind and watermark parameters, fill in the defaults
	if err := validateNormalizeTaskInfo(taskData, newTask); err != nil {
		return nil, err
	}

	newTask.UID = uuid.New()

	// store the base image
	srcKey := c.srcKeyPrefix + newTask.UID.String() + model.GetImageFileExt[taskData.OrigContentType]

	if err := c.storage.Put(ctx, srcKey, taskData.OrigImgSize, taskData.OrigContentType, taskData.OrigImg); err != nil {
		logger.Error().Err(err).Msg("Failed to save src-image in Storage")
		return nil, model.ErrCommon500
	}
	newTask.SourceKey = srcKey

	// store the overlay - image watermarks only
	if newTask.Kind == model.KindImage {
		overlayKey := c.overlayPrefix + newTask.UID.String() + model.GetImageFileExt[taskData.OverlayContentType]

		if err := c.storage.Put(ctx, overlayKey, taskData.OverlayImgSize, taskData.OverlayContentType, taskData.OverlayImg); err != nil {
			logger.Error().Err(err).Msg("Failed to save overlay in Storage")
			return nil, model.ErrCommon500
		}
		newTask.OverlayKey = overlayKey
	}

	newTask.Status = model.StatusCreated
	now := time.Now().UTC()
	newTask.CreatedAt = &now

	if err := c.repo.Create(ctx, newTask); err != nil {
		logger.Error().Err(err).Msg("Failed to create task in DB")
		return nil, model.ErrCommon500
	}

	// enqueue for the worker
	if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(newTask.UID.String()), nil); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish task %q to task-queue", newTask.UID))
		return nil, model.ErrCommon500
	}
	return newTask, nil
}

func (c TaskService) GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	validateQueryParams(req)

	res, err := c.repo.GetList(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch tasks list from DB")
		return nil, model.ErrCommon500
	}

	return res, nil
}

func (c TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return nil, model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return nil, model.ErrCommon500
		}
	}

	return res, nil
}

func (c TaskService) LoadResult(ctx context.Context, id string) (io.ReadCloser, string, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return nil, "", model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return nil, "", model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return nil, "", model.ErrCommon500
		}
	}
	if res.Status != model.StatusDone {
		return nil, "", model.ErrResultNotReady
	}

	data, cType, err := c.storage.Get(ctx, res.ResultKey)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch result-image %q from Storage", id))
		return nil, "", model.ErrCommon500
	}
	return data, cType, nil
}

func (c TaskService) Delete(ctx context.Context, id string) error {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return model.ErrCommon500
		}
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msg("Failed to delete task from DB")
		return model.ErrCommon500
	}

	// drop source, result and overlay from storage - whatever the task owns
	if err := c.storage.Delete(ctx, res.SourceKey); err != nil {
		logger.Error().Err(err).Msg("Failed to delete src-image from Storage")
		return model.ErrCommon500
	}
	if res.Status == model.StatusDone {
		if err := c.storage.Delete(ctx, res.ResultKey); err != nil {
			logger.Error().Err(err).Msg("Failed to delete result-image from Storage")
			return model.ErrCommon500
		}
	}
	if res.Kind == model.KindImage {
		if err := c.storage.Delete(ctx, res.OverlayKey); err != nil {
			logger.Error().Err(err).Msg("Failed to delete overlay from Storage")
			return model.ErrCommon500
		}
	}

	return nil
}

func (c TaskService) UpdateStatus(ctx context.Context, id string, newStat model.Status) error {
	if err := uuid.Validate(id); err != nil {
		return model.ErrIncorrectID
	}

	logger := mwlogger.LoggerFromContext(ctx)

	if err := c.repo.UpdateStatus(ctx, id, newStat); err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg("Failed to update task status in DB")
			return model.ErrCommon500 // 500
		}
	}

	return nil
}

// MarkFailed sets the failed status and records why, so the task keeps the
// reason for the client to read back.
func (c TaskService) MarkFailed(ctx context.Context, id string, reason string) error {
	if err := uuid.Validate(id); err != nil {
		return model.ErrIncorrectID
	}

	logger := mwlogger.LoggerFromContext(ctx)

	if err := c.repo.MarkFailed(ctx, id, reason); err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg("Failed to mark task as failed in DB")
			return model.ErrCommon500 // 500
		}
	}

	return nil
}

func (c TaskService) SaveResult(ctx context.Context, input *model.Task) error {
	logger := mwlogger.LoggerFromContext(ctx)
	t := time.Now().UTC()
	input.UpdatedAt = &t
	if err := c.repo.SaveResult(ctx, input); err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg("Failed to save task result in DB")
			return model.ErrCommon500 // 500
		}
	}

	return nil
}

func (c TaskService) ReviveOrphans(ctx context.Context, limit int) {
	logger := mwlogger.LoggerFromContext(ctx)

	orphans, err := c.repo.FetchOrphans(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load orphans from DB")
		return
	}

	for _, v := range orphans {
		if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(v), nil); err != nil {
			logger.Error().Err(err).Msg("Failed to publish orphan to queue")
		}
	}
}
