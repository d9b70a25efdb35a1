package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":  r.handleStartCommand,
		"help":   r.handleHelpCommand,
		"leech":  r.handleLeechCommand,
		"verify": r.handleVerifyCommand,

		"stats": r.adminOnly(r.handleStatsCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			return r.SendMessage(ctx, message.Chat.ID, "You are not authorized to use this command.")
		}
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncTelegramCommand("/start")
	text, err := r.facade.HandleStart(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("start failed")
		return r.SendMessage(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncTelegramCommand("/help")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HelpText())
}

func (r *RealTelegramBotAdapter) handleLeechCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /leech <terabox-url>")
	}
	return r.handleLeechArg(ctx, message, arg)
}

func (r *RealTelegramBotAdapter) handleLeechArg(ctx context.Context, message *tgbotapi.Message, shareURL string) error {
	metrics.IncTelegramCommand("/leech")
	status := r.newStatusReporter(message.Chat.ID)

	reply, err := r.facade.HandleLeech(ctx, message.From.ID, message.From.UserName, message.Chat.ID, shareURL, status)
	if err != nil {
		_ = status.Delete(ctx)
		if reply == "" {
			reply = r.replyForError(err)
		}
		r.log.Warn().Err(err).Int64("tg_id", message.From.ID).Str("url", shareURL).Msg("leech failed")
		return r.SendMessage(ctx, message.Chat.ID, reply)
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleVerifyCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncTelegramCommand("/verify")
	token := strings.TrimSpace(message.CommandArguments())
	if token == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Please provide the verification token.\nUsage: /verify <token>")
	}
	text, err := r.facade.HandleVerify(ctx, message.From.ID, token)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, r.replyForError(err))
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncTelegramCommand("/stats")
	text, err := r.facade.HandleStats(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("stats failed")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to collect stats.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// replyForError maps each failure kind to exactly one user-facing message.
func (r *RealTelegramBotAdapter) replyForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidShareLink):
		return "❌ That doesn't look like a valid Terabox link."
	case errors.Is(err, domain.ErrResolutionFailed):
		return "❌ Could not resolve this link. It may be expired or private. Please get a fresh link from Terabox."
	case errors.Is(err, domain.ErrFileTooLarge):
		return fmt.Sprintf("❌ File is too large to upload to Telegram (limit: %s).", formatLimit(r.maxUpload))
	case errors.Is(err, domain.ErrDownloadFailed):
		return "❌ Download failed. Please try again later."
	case errors.Is(err, domain.ErrUploadFailed):
		return "❌ Upload to Telegram failed. Please try again later."
	case errors.Is(err, domain.ErrVerificationFailed):
		return "❌ Verification failed. Please check your token and try again."
	default:
		return "❌ Something went wrong. Please try again later."
	}
}

func formatLimit(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
