package usecase

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/domain/ports/repository"
	"terabox-leech-bot/internal/infra/logging"
	"terabox-leech-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ LeechUseCase = (*leechUC)(nil)

// LeechUseCase runs one /leech request end to end: validate the share link,
// resolve it, enforce the upload ceiling, download and re-upload. Every
// failure is terminal for the request; the returned error wraps exactly one
// domain sentinel so the bot layer can pick the matching fixed message.
type LeechUseCase interface {
	Handle(ctx context.Context, user *model.User, chatID int64, shareURL string, status adapter.StatusReporter) error
}

type leechUC struct {
	resolver adapter.LinkResolver
	fetcher  adapter.FileFetcher
	bot      adapter.TelegramBotAdapter
	tasks    repository.LeechTaskRepository
	users    repository.UserRepository
	ceiling  int64
	log      *zerolog.Logger
}

func NewLeechUseCase(
	resolver adapter.LinkResolver,
	fetcher adapter.FileFetcher,
	bot adapter.TelegramBotAdapter,
	tasks repository.LeechTaskRepository,
	users repository.UserRepository,
	ceiling int64,
	logger *zerolog.Logger,
) *leechUC {
	return &leechUC{
		resolver: resolver,
		fetcher:  fetcher,
		bot:      bot,
		tasks:    tasks,
		users:    users,
		ceiling:  ceiling,
		log:      logger,
	}
}

func (l *leechUC) Handle(ctx context.Context, user *model.User, chatID int64, shareURL string, status adapter.StatusReporter) error {
	defer logging.TraceDuration(l.log, "LeechUC.Handle")()

	if !model.IsTeraboxShareURL(shareURL) {
		metrics.IncLeechOutcome("invalid_link")
		return fmt.Errorf("leech %q: %w", shareURL, domain.ErrInvalidShareLink)
	}

	task, err := model.NewLeechTask(user.ID, chatID, shareURL)
	if err != nil {
		return err
	}
	l.saveTask(ctx, task)

	_ = status.Update(ctx, "🔎 Resolving Terabox link...")

	start := time.Now()
	file, err := l.resolver.Resolve(ctx, shareURL)
	metrics.ObserveResolverCall(time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		l.fail(ctx, task, "resolution failed")
		metrics.IncLeechOutcome("resolution_failed")
		return fmt.Errorf("resolve %q: %w", shareURL, domain.ErrResolutionFailed)
	}

	if file.Size > l.ceiling {
		l.fail(ctx, task, fmt.Sprintf("file too large: %d > %d", file.Size, l.ceiling))
		metrics.IncOversizeRejected()
		metrics.IncLeechOutcome("too_large")
		return fmt.Errorf("size %d over ceiling %d: %w", file.Size, l.ceiling, domain.ErrFileTooLarge)
	}

	task.MarkDownloading(file)
	l.saveTask(ctx, task)
	_ = status.Update(ctx, fmt.Sprintf("📄 Name: %s\n🗂️ Size: %s\n\n⬇️ Downloading...", file.Name, formatBytes(file.Size)))

	path, err := l.fetcher.Fetch(ctx, file, l.progressFunc(ctx, status, start))
	if err != nil {
		l.fail(ctx, task, "download failed")
		metrics.IncLeechOutcome("download_failed")
		return fmt.Errorf("download %q: %w", file.Name, domain.ErrDownloadFailed)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			l.log.Warn().Err(err).Str("path", path).Msg("temp file cleanup failed")
		}
	}()
	metrics.AddDownloadBytes(file.Size)

	task.MarkUploading()
	l.saveTask(ctx, task)
	_ = status.Update(ctx, fmt.Sprintf("✅ Downloaded %s\n\n📤 Uploading to Telegram...", file.Name))

	caption := fmt.Sprintf("File: %s\nSize: %s", file.Name, formatBytes(file.Size))
	if err := l.bot.UploadFile(ctx, chatID, path, file.Name, caption); err != nil {
		l.fail(ctx, task, "upload failed")
		metrics.IncLeechOutcome("upload_failed")
		return fmt.Errorf("upload %q: %w", file.Name, domain.ErrUploadFailed)
	}
	metrics.AddUploadBytes(file.Size)

	task.MarkDone()
	l.saveTask(ctx, task)
	if err := l.users.IncrementLeechCount(ctx, repository.NoTX, user.ID); err != nil {
		l.log.Warn().Err(err).Str("user_id", user.ID).Msg("leech count update failed")
	}
	metrics.IncLeechOutcome("done")

	// The uploaded file is the success response; drop the status message.
	_ = status.Delete(ctx)
	return nil
}

// progressFunc edits the status message at most once per interval while a
// download is in flight.
func (l *leechUC) progressFunc(ctx context.Context, status adapter.StatusReporter, start time.Time) func(done, total int64) {
	var (
		mu   sync.Mutex
		last time.Time
	)
	const interval = 3 * time.Second
	return func(done, total int64) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(last) < interval {
			return
		}
		last = time.Now()

		if total <= 0 {
			_ = status.Update(ctx, fmt.Sprintf("⬇️ Downloading...\n📦 Processed: %s", formatBytes(done)))
			return
		}
		p := float64(done) / float64(total)
		elapsed := time.Since(start)
		speed := float64(done) / elapsed.Seconds()
		var eta time.Duration
		if speed > 0 {
			eta = time.Duration(float64(total-done)/speed) * time.Second
		}
		_ = status.Update(ctx, fmt.Sprintf(
			"⬇️ Downloading\n🧮 %s %.1f%%\n📦 %s / %s\n🚀 %s/s\n⏳ ETA: %s",
			progressBar(p, 20), p*100,
			formatBytes(done), formatBytes(total),
			formatBytes(int64(speed)), formatETA(eta),
		))
	}
}

// saveTask persists the audit record best-effort; storage trouble must not
// break the user-facing flow.
func (l *leechUC) saveTask(ctx context.Context, task *model.LeechTask) {
	if err := l.tasks.Save(ctx, repository.NoTX, task); err != nil {
		l.log.Warn().Err(err).Str("task_id", task.ID).Msg("task save failed")
	}
}

func (l *leechUC) fail(ctx context.Context, task *model.LeechTask, reason string) {
	task.MarkFailed(reason)
	l.saveTask(ctx, task)
}
