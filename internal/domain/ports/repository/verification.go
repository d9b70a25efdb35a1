package repository

import "context"

// VerificationStore records which Telegram users currently hold a valid
// verification. Implementations expire entries after the validity window.
type VerificationStore interface {
	MarkVerified(ctx context.Context, tgID int64) error
	IsVerified(ctx context.Context, tgID int64) (bool, error)
	Revoke(ctx context.Context, tgID int64) error
}
