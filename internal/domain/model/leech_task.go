package model

import (
	"time"

	"terabox-leech-bot/internal/domain"

	"github.com/google/uuid"
)

// TaskStatus tracks the lifecycle of a single leech request.
type TaskStatus string

const (
	TaskResolving   TaskStatus = "resolving"
	TaskDownloading TaskStatus = "downloading"
	TaskUploading   TaskStatus = "uploading"
	TaskDone        TaskStatus = "done"
	TaskFailed      TaskStatus = "failed"
)

// LeechRequest is the transient input of a /leech command. It is consumed
// synchronously within the handling of that command and never persisted.
type LeechRequest struct {
	ChatID   int64
	ShareURL string
}

// ResolvedFile is the resolver's answer for a share link: a direct download
// URL plus whatever metadata the resolution API reported. Discarded after the
// upload attempt completes.
type ResolvedFile struct {
	DirectURL string
	Name      string
	Size      int64
}

// LeechTask is the persisted audit record of one leech request. Writing it is
// best-effort; a failed task write never blocks the user flow.
type LeechTask struct {
	ID         string
	UserID     string
	ChatID     int64
	ShareURL   string
	Filename   string
	Size       int64
	Status     TaskStatus
	FailReason string
	CreatedAt  time.Time
	FinishedAt *time.Time
}

func NewLeechTask(userID string, chatID int64, shareURL string) (*LeechTask, error) {
	if userID == "" || chatID == 0 || shareURL == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &LeechTask{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChatID:    chatID,
		ShareURL:  shareURL,
		Status:    TaskResolving,
		CreatedAt: time.Now(),
	}, nil
}

func (t *LeechTask) MarkDownloading(f *ResolvedFile) {
	t.Status = TaskDownloading
	t.Filename = f.Name
	t.Size = f.Size
}

func (t *LeechTask) MarkUploading() { t.Status = TaskUploading }

func (t *LeechTask) MarkDone() {
	now := time.Now()
	t.Status = TaskDone
	t.FinishedAt = &now
}

func (t *LeechTask) MarkFailed(reason string) {
	now := time.Now()
	t.Status = TaskFailed
	t.FailReason = reason
	t.FinishedAt = &now
}
