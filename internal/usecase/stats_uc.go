package usecase

import (
	"context"

	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ StatsUseCase = (*statsUC)(nil)

// Stats is the aggregate snapshot behind the admin /stats command.
type Stats struct {
	Users       int
	Tasks       int
	TasksDone   int
	TasksFailed int
}

type StatsUseCase interface {
	Snapshot(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	users repository.UserRepository
	tasks repository.LeechTaskRepository
	log   *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, tasks repository.LeechTaskRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, tasks: tasks, log: logger}
}

func (s *statsUC) Snapshot(ctx context.Context) (*Stats, error) {
	users, err := s.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.CountTasks(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	done, err := s.tasks.CountByStatus(ctx, repository.NoTX, model.TaskDone)
	if err != nil {
		return nil, err
	}
	failed, err := s.tasks.CountByStatus(ctx, repository.NoTX, model.TaskFailed)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Tasks: tasks, TasksDone: done, TasksFailed: failed}, nil
}
