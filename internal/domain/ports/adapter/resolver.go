package adapter

import (
	"context"

	"terabox-leech-bot/internal/domain/model"
)

// LinkResolver turns a Terabox share URL into a direct download URL plus file
// metadata. The concrete resolution mechanism is swappable as long as this
// contract holds.
type LinkResolver interface {
	Resolve(ctx context.Context, shareURL string) (*model.ResolvedFile, error)
}

// FileFetcher downloads a resolved file to a local temp path and returns it.
// onProgress may be nil; when set it receives (downloaded, total) byte counts.
type FileFetcher interface {
	Fetch(ctx context.Context, f *model.ResolvedFile, onProgress func(done, total int64)) (string, error)
}

// TokenVerifier checks a shortlink verification token against its issuer.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (bool, error)
}
