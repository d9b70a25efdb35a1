package application

import (
	"context"
	"fmt"
	"strings"

	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	UserUC   usecase.UserUseCase
	LeechUC  usecase.LeechUseCase
	VerifyUC usecase.VerificationUseCase
	StatsUC  usecase.StatsUseCase
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	leechUC usecase.LeechUseCase,
	verifyUC usecase.VerificationUseCase,
	statsUC usecase.StatsUseCase,
) *BotFacade {
	return &BotFacade{
		UserUC:   userUC,
		LeechUC:  leechUC,
		VerifyUC: verifyUC,
		StatsUC:  statsUC,
	}
}

// HelpText is the single usage message. /start, /help and any unrecognized
// command all answer with it.
func (b *BotFacade) HelpText() string {
	return "👋 Send me a Terabox share link and I will fetch the file for you.\n\n" +
		"Commands:\n" +
		"/leech <terabox-url> - download a Terabox file into this chat\n" +
		"/verify <token> - unlock access after visiting your shortlink\n" +
		"/help - show this message"
}

// HandleStart registers or fetches the user and returns the usage message.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	if b.UserUC == nil {
		return "", fmt.Errorf("user usecase not available")
	}
	if _, err := b.UserUC.RegisterOrFetch(ctx, tgID, username); err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	return b.HelpText(), nil
}

// HandleLeech runs one leech request end to end. A non-empty message means
// "send this instead" (the verification prompt); otherwise the uploaded file
// is the reply and errors carry a domain sentinel for the adapter to map.
func (b *BotFacade) HandleLeech(ctx context.Context, tgID int64, username string, chatID int64, shareURL string, status adapter.StatusReporter) (string, error) {
	if b.UserUC == nil || b.LeechUC == nil {
		return "", fmt.Errorf("leech usecases not available")
	}
	user, err := b.UserUC.RegisterOrFetch(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}

	if b.VerifyUC != nil && b.VerifyUC.Enabled() {
		ok, err := b.VerifyUC.IsVerified(ctx, tgID)
		if err != nil {
			return "", fmt.Errorf("verification check: %w", err)
		}
		if !ok {
			msg := fmt.Sprintf("🔐 Please verify first:\n%s\n\nThen run /verify <token> with the token you receive.", b.VerifyUC.Link(tgID))
			return msg, domain.ErrVerificationNeeded
		}
	}

	if err := b.LeechUC.Handle(ctx, user, chatID, shareURL, status); err != nil {
		return "", err
	}
	return "", nil
}

// HandleVerify checks a shortlink token and unlocks the user on success.
func (b *BotFacade) HandleVerify(ctx context.Context, tgID int64, token string) (string, error) {
	if b.VerifyUC == nil || !b.VerifyUC.Enabled() {
		return "✅ Verification is not required on this bot.", nil
	}
	if err := b.VerifyUC.Verify(ctx, tgID, token); err != nil {
		return "", err
	}
	return "✅ Verified! You can use /leech now.", nil
}

// HandleStats builds the admin-facing stats message.
func (b *BotFacade) HandleStats(ctx context.Context) (string, error) {
	if b.StatsUC == nil {
		return "", fmt.Errorf("stats usecase not available")
	}
	stats, err := b.StatsUC.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("stats snapshot: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 Bot Statistics:\n\n")
	sb.WriteString(fmt.Sprintf("👥 Users: %d\n", stats.Users))
	sb.WriteString(fmt.Sprintf("📦 Leech tasks: %d\n", stats.Tasks))
	sb.WriteString(fmt.Sprintf("  - done: %d\n", stats.TasksDone))
	sb.WriteString(fmt.Sprintf("  - failed: %d\n", stats.TasksFailed))
	return sb.String(), nil
}
