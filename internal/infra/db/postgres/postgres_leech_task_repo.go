package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/repository"
)

var _ repository.LeechTaskRepository = (*PostgresLeechTaskRepo)(nil)

type PostgresLeechTaskRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresLeechTaskRepo(pool *pgxpool.Pool) *PostgresLeechTaskRepo {
	return &PostgresLeechTaskRepo{pool: pool}
}

func (r *PostgresLeechTaskRepo) Save(ctx context.Context, tx repository.Tx, t *model.LeechTask) error {
	const q = `
INSERT INTO leech_tasks (
  id, user_id, chat_id, share_url, filename, size, status, fail_reason, created_at, finished_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  filename=$5, size=$6, status=$7, fail_reason=$8, finished_at=$10;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, t.ID, t.UserID, t.ChatID, t.ShareURL, t.Filename, t.Size, string(t.Status), t.FailReason, t.CreatedAt, t.FinishedAt)
	return err
}

func (r *PostgresLeechTaskRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.LeechTask, error) {
	const q = `
SELECT id, user_id, chat_id, share_url, filename, size, status, fail_reason, created_at, finished_at
  FROM leech_tasks WHERE id=$1;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var (
		t      model.LeechTask
		status string
	)
	if err := ex.QueryRow(ctx, q, id).Scan(&t.ID, &t.UserID, &t.ChatID, &t.ShareURL, &t.Filename, &t.Size, &status, &t.FailReason, &t.CreatedAt, &t.FinishedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.Status = model.TaskStatus(status)
	return &t, nil
}

func (r *PostgresLeechTaskRepo) CountTasks(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM leech_tasks;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *PostgresLeechTaskRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.TaskStatus) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM leech_tasks WHERE status=$1;`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}
	return n, nil
}
