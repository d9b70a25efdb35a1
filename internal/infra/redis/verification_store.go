package redis

import (
	"context"
	"fmt"
	"time"
)

// VerificationStore keeps the "verified" flag per Telegram user. The TTL is
// the verification validity window; expiry means the user has to verify again.
type VerificationStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewVerificationStore(client RedisClient, ttl time.Duration) *VerificationStore {
	return &VerificationStore{client: client, ttl: ttl}
}

func verifiedKey(tgID int64) string {
	return fmt.Sprintf("verified:%d", tgID)
}

func (s *VerificationStore) MarkVerified(ctx context.Context, tgID int64) error {
	return s.client.Set(ctx, verifiedKey(tgID), "1", s.ttl)
}

func (s *VerificationStore) IsVerified(ctx context.Context, tgID int64) (bool, error) {
	_, err := s.client.Get(ctx, verifiedKey(tgID))
	if err != nil {
		if IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *VerificationStore) Revoke(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, verifiedKey(tgID))
}
