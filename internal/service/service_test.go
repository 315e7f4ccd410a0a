package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/UnendingLoop/Watermarker/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

// CREATE - SUCCESS - TEXT TASK
func TestTaskService_Create_Text_OK(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepo{
		createFn: func(ctx context.Context, task *model.Task) error {
			require.NotEmpty(t, task.UID)
			require.Equal(t, model.StatusCreated, task.Status)
			require.Equal(t, model.KindText, task.Kind)
			require.Equal(t, model.DefaultFontSize, task.FontSize)
			require.Equal(t, model.DefaultPosition, task.Position)
			return nil
		},
	}

	puts := 0
	storage := &mockStorage{
		putFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
			puts++
			return nil
		},
	}

	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			require.NotEmpty(t, key)
			return nil
		},
	}

	svc := TaskService{
		repo:         repo,
		storage:      storage,
		publisher:    pub,
		srcKeyPrefix: "src/",
	}

	task, err := svc.Create(ctx, validTextCreateData())
	require.NoError(t, err)
	require.NotNil(t, task)
	// text task stores the base image only, no overlay
	require.Equal(t, 1, puts)
}

// CREATE - SUCCESS - IMAGE TASK STORES OVERLAY TOO
func TestTaskService_Create_Image_OK(t *testing.T) {
	keys := []string{}
	storage := &mockStorage{
		putFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
			keys = append(keys, key)
			return nil
		},
	}

	repo := &mockRepo{
		createFn: func(ctx context.Context, task *model.Task) error { return nil },
	}
	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error { return nil },
	}

	svc := TaskService{
		repo:          repo,
		storage:       storage,
		publisher:     pub,
		srcKeyPrefix:  "src/",
		overlayPrefix: "wm/",
	}

	task, err := svc.Create(context.Background(), validImageCreateData())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Contains(t, keys[0], "src/")
	require.Contains(t, keys[1], "wm/")
	require.NotEmpty(t, task.OverlayKey)
}

// CREATE - VALIDATION FAIL
func TestTaskService_Create_InvalidInput(t *testing.T) {
	svc := TaskService{}

	_, err := svc.Create(context.Background(), &model.TaskCreateData{})
	require.ErrorIs(t, err, model.ErrIncorrectKind)
}

// CREATE - STORAGE PUT FAIL
func TestTaskService_Create_StorageError(t *testing.T) {
	repo := &mockRepo{}
	storage := &mockStorage{
		putFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
			return errors.New("storage is down")
		},
	}

	svc := TaskService{
		repo:         repo,
		storage:      storage,
		srcKeyPrefix: "src/",
	}

	_, err := svc.Create(context.Background(), validTextCreateData())
	require.ErrorIs(t, err, model.ErrCommon500)
}

// GETLIST - SUCCESS
func TestTaskService_GetList_OK(t *testing.T) {
	repo := &mockRepo{
		getListFn: func(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
			require.Equal(t, 1, req.Page)
			return []model.Task{{UID: uuid.New()}}, nil
		},
	}

	svc := TaskService{repo: repo}

	res, err := svc.GetList(context.Background(), &model.ListRequest{})
	require.NoError(t, err)
	require.Len(t, res, 1)
}

// GET - SUCCESS
func TestTaskService_Get_OK(t *testing.T) {
	id := uuid.New().String()

	repo := &mockRepo{
		getFn: func(ctx context.Context, uid string) (*model.Task, error) {
			return &model.Task{UID: uuid.MustParse(uid)}, nil
		},
	}

	svc := TaskService{repo: repo}

	task, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, task.UID.String())
}

// GET - FAIL
func TestTaskService_Get_InvalidID(t *testing.T) {
	svc := TaskService{}
	_, err := svc.Get(context.Background(), "bad-id")
	require.ErrorIs(t, err, model.ErrIncorrectID)
}

// LOADRESULT - FAIL
func TestTaskService_LoadResult_NotReady(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{Status: model.StatusCreated}, nil
		},
	}

	svc := TaskService{repo: repo}

	_, _, err := svc.LoadResult(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, model.ErrResultNotReady)
}

// DELETE - FAIL - NOT FOUND
func TestTaskService_Delete_NotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id string) (*model.Task, error) {
			return nil, model.ErrTaskNotFound
		},
	}

	svc := TaskService{repo: repo}
	err := svc.Delete(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, model.ErrTaskNotFound)
}

// UPDATESTATUS - SUCCESS
func TestTaskService_UpdateStatus_OK(t *testing.T) {
	repo := &mockRepo{
		updateStatusFn: func(ctx context.Context, id string, st model.Status) error {
			require.Equal(t, model.StatusDone, st)
			return nil
		},
	}

	svc := TaskService{repo: repo}
	err := svc.UpdateStatus(context.Background(), uuid.New().String(), model.StatusDone)
	require.NoError(t, err)
}

// MARKFAILED - SUCCESS
func TestTaskService_MarkFailed_OK(t *testing.T) {
	id := uuid.New().String()

	repo := &mockRepo{
		markFailedFn: func(ctx context.Context, gotID string, reason string) error {
			require.Equal(t, id, gotID)
			require.Equal(t, "decode base image: broken stream", reason)
			return nil
		},
	}

	svc := TaskService{repo: repo}
	err := svc.MarkFailed(context.Background(), id, "decode base image: broken stream")
	require.NoError(t, err)
}

// MARKFAILED - FAIL
func TestTaskService_MarkFailed_InvalidID(t *testing.T) {
	svc := TaskService{}
	err := svc.MarkFailed(context.Background(), "bad-id", "whatever")
	require.ErrorIs(t, err, model.ErrIncorrectID)
}

// SAVERESULT - SUCCESS
func TestTaskService_SaveResult_OK(t *testing.T) {
	repo := &mockRepo{
		saveResultFn: func(ctx context.Context, task *model.Task) error {
			require.NotNil(t, task.UpdatedAt)
			return nil
		},
	}

	svc := TaskService{repo: repo}
	err := svc.SaveResult(context.Background(), &model.Task{})
	require.NoError(t, err)
}

// REVIVEORPHANS - SUCCESS
func TestTaskService_ReviveOrphans(t *testing.T) {
	called := 0

	repo := &mockRepo{
		fetchOrphansFn: func(ctx context.Context, limit int) ([]string, error) {
			return []string{"id1", "id2"}, nil
		},
	}

	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			called++
			return nil
		},
	}

	svc := TaskService{repo: repo, publisher: pub}
	svc.ReviveOrphans(context.Background(), 10)

	require.Equal(t, 2, called)
}

// VALIDATION TABLE
func TestValidateNormalizeTaskInfo(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *model.TaskCreateData)
		wantErr error
	}{
		{
			name:    "unknown kind",
			mutate:  func(d *model.TaskCreateData) { d.Kind = "vector" },
			wantErr: model.ErrIncorrectKind,
		},
		{
			name:    "missing source",
			mutate:  func(d *model.TaskCreateData) { d.OrigImg = nil },
			wantErr: model.ErrEmptySource,
		},
		{
			name:    "empty text",
			mutate:  func(d *model.TaskCreateData) { d.Text = "   " },
			wantErr: model.ErrEmptyText,
		},
		{
			name:    "non-positive font size",
			mutate:  func(d *model.TaskCreateData) { d.FontSize = ptr(0) },
			wantErr: model.ErrIncorrectFontSize,
		},
		{
			name:    "broken color",
			mutate:  func(d *model.TaskCreateData) { d.Color = "#zzz" },
			wantErr: model.ErrIncorrectColor,
		},
		{
			name:    "opacity out of range",
			mutate:  func(d *model.TaskCreateData) { d.Opacity = ptr(1.5) },
			wantErr: model.ErrIncorrectOpacity,
		},
		{
			name:    "unknown position",
			mutate:  func(d *model.TaskCreateData) { d.Position = "everywhere" },
			wantErr: model.ErrIncorrectPosition,
		},
		{
			name:    "tile position with text kind",
			mutate:  func(d *model.TaskCreateData) { d.Position = model.PositionTile },
			wantErr: model.ErrIncorrectPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validTextCreateData()
			tt.mutate(data)

			err := validateNormalizeTaskInfo(data, &model.Task{})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateNormalizeTaskInfo_ImageParams(t *testing.T) {
	data := validImageCreateData()
	data.Scale = ptr(-0.5)

	err := validateNormalizeTaskInfo(data, &model.Task{})
	require.ErrorIs(t, err, model.ErrIncorrectScale)

	// overlay must be PNG
	data = validImageCreateData()
	data.OverlayContentType = model.JPEG
	err = validateNormalizeTaskInfo(data, &model.Task{})
	require.ErrorIs(t, err, model.ErrEmptyOverlay)

	// defaults fill in
	data = validImageCreateData()
	clean := &model.Task{}
	require.NoError(t, validateNormalizeTaskInfo(data, clean))
	require.Equal(t, model.DefaultScale, clean.Scale)
	require.Equal(t, model.DefaultOpacity, clean.Opacity)
}

func ptr[T any](v T) *T { return &v }

// helper creating a file stub
func newFakeFile(content string) multipart.File {
	return &fakeMultipartFile{
		Reader: bytes.NewReader([]byte(content)),
	}
}

// helper producing a valid text-task payload
func validTextCreateData() *model.TaskCreateData {
	return &model.TaskCreateData{
		Kind:            string(model.KindText),
		Text:            "Sample Watermark",
		OrigImg:         newFakeFile("image-bytes"),
		OrigImgSize:     int64(len("image-bytes")),
		OrigContentType: model.JPEG,
	}
}

// helper producing a valid image-task payload
func validImageCreateData() *model.TaskCreateData {
	return &model.TaskCreateData{
		Kind:               string(model.KindImage),
		OrigImg:            newFakeFile("image-bytes"),
		OrigImgSize:        int64(len("image-bytes")),
		OrigContentType:    model.JPEG,
		OverlayImg:         newFakeFile("overlay-bytes"),
		OverlayImgSize:     int64(len("overlay-bytes")),
		OverlayContentType: model.PNG,
	}
}
