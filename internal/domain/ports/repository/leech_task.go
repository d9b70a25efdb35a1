package repository

import (
	"context"

	"terabox-leech-bot/internal/domain/model"
)

type LeechTaskRepository interface {
	Save(ctx context.Context, tx Tx, t *model.LeechTask) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.LeechTask, error)
	CountTasks(ctx context.Context, tx Tx) (int, error)
	CountByStatus(ctx context.Context, tx Tx, status model.TaskStatus) (int, error)
}
