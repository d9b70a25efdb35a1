package usecase

import (
	"context"
	"fmt"

	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ VerificationUseCase = (*verificationUC)(nil)

// VerificationUseCase gates leech access behind a shortlink token. When the
// feature is disabled every user passes; when enabled a user must complete
// /verify <token> once per TTL window before leeching.
type VerificationUseCase interface {
	IsVerified(ctx context.Context, tgID int64) (bool, error)
	Verify(ctx context.Context, tgID int64, token string) error
	Link(tgID int64) string
	Enabled() bool
}

type verificationUC struct {
	cfg      config.VerificationConfig
	verifier adapter.TokenVerifier
	store    repository.VerificationStore
	log      *zerolog.Logger
}

func NewVerificationUseCase(cfg config.VerificationConfig, verifier adapter.TokenVerifier, store repository.VerificationStore, logger *zerolog.Logger) *verificationUC {
	return &verificationUC{cfg: cfg, verifier: verifier, store: store, log: logger}
}

func (v *verificationUC) Enabled() bool { return v.cfg.Enabled }

func (v *verificationUC) IsVerified(ctx context.Context, tgID int64) (bool, error) {
	if !v.cfg.Enabled {
		return true, nil
	}
	return v.store.IsVerified(ctx, tgID)
}

func (v *verificationUC) Verify(ctx context.Context, tgID int64, token string) error {
	if !v.cfg.Enabled {
		return nil
	}
	if token == "" {
		return domain.ErrInvalidArgument
	}
	ok, err := v.verifier.VerifyToken(ctx, token)
	if err != nil {
		v.log.Warn().Err(err).Int64("tg_id", tgID).Msg("token verification call failed")
		return fmt.Errorf("verify token: %w", domain.ErrVerificationFailed)
	}
	if !ok {
		return domain.ErrVerificationFailed
	}
	if err := v.store.MarkVerified(ctx, tgID); err != nil {
		return fmt.Errorf("persist verification: %w", err)
	}
	return nil
}

// Link builds the shortlink a user must visit to obtain a token.
func (v *verificationUC) Link(tgID int64) string {
	return fmt.Sprintf("https://%s/verify?api_key=%s&user=%d", v.cfg.ShortlinkURL, v.cfg.APIKey, tgID)
}
