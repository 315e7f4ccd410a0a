package main

import (
	"context"
	"io"

	"github.com/UnendingLoop/Watermarker/internal/model"
)

type TaskAPIService interface {
	Create(context.Context, *model.TaskCreateData) (*model.Task, error)
	LoadResult(ctx context.Context, id string) (io.ReadCloser, string, error)
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error)
	Delete(ctx context.Context, id string) error
	ReviveOrphans(ctx context.Context, limit int)
}
