package taskpostgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

func (p PostgresRepo) Create(ctx context.Context, n *model.Task) error {
	query := `INSERT INTO watermark_tasks (task_uid, source_key, overlay_key, result_key, kind, wm_text, font_path, font_size, color, opacity, scale, pos, status, err_msg, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	return p.DB.QueryRowContext(ctx, query, n.UID, n.SourceKey, n.OverlayKey, n.ResultKey, n.Kind, n.Text, n.FontPath, n.FontSize, n.Color, n.Opacity, n.Scale, n.Position, n.Status, n.ErrMsg, n.CreatedAt, n.CreatedAt).Err()
}

func (p PostgresRepo) Get(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT task_uid, source_key, overlay_key, result_key, kind, wm_text, font_path, font_size, color, opacity, scale, pos, status, err_msg, created_at, updated_at
	FROM watermark_tasks
	WHERE task_uid = $1`
	var task model.Task

	err := p.DB.QueryRowContext(ctx, query, id).Scan(&task.UID,
		&task.SourceKey,
		&task.OverlayKey,
		&task.ResultKey,
		&task.Kind,
		&task.Text,
		&task.FontPath,
		&task.FontSize,
		&task.Color,
		&task.Opacity,
		&task.Scale,
		&task.Position,
		&task.Status,
		&task.ErrMsg,
		&task.CreatedAt,
		&task.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrTaskNotFound
		default:
			return nil, err // 500
		}
	}
	return &task, nil
}

func (p PostgresRepo) GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
	query := fmt.Sprintf(`SELECT task_uid, kind, wm_text, opacity, scale, pos, status, err_msg, created_at, updated_at
	FROM watermark_tasks
	ORDER BY %s %s
	LIMIT $1
	OFFSET $2`, req.Sort, req.Order)

	offset := (req.Page - 1) * req.Limit

	rows, err := p.DB.QueryContext(ctx, query, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	tasks := make([]model.Task, 0, req.Limit)
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(&task.UID,
			&task.Kind,
			&task.Text,
			&task.Opacity,
			&task.Scale,
			&task.Position,
			&task.Status,
			&task.ErrMsg,
			&task.CreatedAt,
			&task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return tasks, nil
}

func (p PostgresRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM watermark_tasks
	WHERE task_uid = $1`

	row := p.DB.QueryRowContext(ctx, query, id)
	if row.Err() != nil {
		switch {
		case errors.Is(row.Err(), sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			return row.Err() // 500
		}
	}
	return nil
}

func (p PostgresRepo) UpdateStatus(ctx context.Context, id string, newStat model.Status) error {
	query := `UPDATE watermark_tasks SET status = $1, updated_at = now() WHERE task_uid = $2`
	row := p.DB.QueryRowContext(ctx, query, newStat, id)

	if row.Err() != nil {
		switch {
		case errors.Is(row.Err(), sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			return row.Err() // 500
		}
	}
	return nil
}

func (p PostgresRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `UPDATE watermark_tasks
	SET status = $1, err_msg = coalesce(err_msg, '[]'::jsonb) || $2::jsonb, updated_at = now()
	WHERE task_uid = $3`
	row := p.DB.QueryRowContext(ctx, query, model.StatusFailed, model.StringSlice{reason}, id)

	if row.Err() != nil {
		switch {
		case errors.Is(row.Err(), sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			return row.Err() // 500
		}
	}
	return nil
}

func (p PostgresRepo) SaveResult(ctx context.Context, input *model.Task) error {
	query := `UPDATE watermark_tasks SET status = $1, updated_at = $2, result_key = $3 WHERE task_uid = $4`
	row := p.DB.QueryRowContext(ctx, query, input.Status, input.UpdatedAt, input.ResultKey, input.UID)

	if row.Err() != nil {
		switch {
		case errors.Is(row.Err(), sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			return row.Err() // 500
		}
	}

	return nil
}

func (p PostgresRepo) FetchOrphans(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT task_uid
	FROM watermark_tasks
	WHERE status IN ($1, $2)
	AND updated_at < now() - interval '10 minutes'
	LIMIT $3`

	rows, err := p.DB.QueryContext(ctx, query, model.StatusCreated, model.StatusInProgress, limit)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	orphans := make([]string, 0, limit)
	for rows.Next() {
		uid := ""
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		orphans = append(orphans, uid)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return orphans, nil
}
