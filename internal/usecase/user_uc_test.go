//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/repository"
	"terabox-leech-bot/internal/usecase"
)

func TestUserUseCase_RegisterOrFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fetches an existing user and refreshes activity", func(t *testing.T) {
		t.Parallel()
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, NewMockTxManager(), newTestLogger())

		original := &model.User{
			ID:           "user-123",
			TelegramID:   12345,
			Username:     "old_username",
			LastActiveAt: time.Now().Add(-time.Hour),
		}
		repo.Save(ctx, repository.NoTX, original)

		got, err := uc.RegisterOrFetch(ctx, 12345, "new_username")
		if err != nil {
			t.Fatalf("RegisterOrFetch failed: %v", err)
		}
		if got.ID != "user-123" {
			t.Errorf("expected existing user ID, got %q", got.ID)
		}

		saved, _ := repo.FindByID(ctx, repository.NoTX, "user-123")
		if saved == nil {
			t.Fatal("user missing from repo after update")
		}
		if !saved.LastActiveAt.After(original.LastActiveAt) {
			t.Error("expected LastActiveAt to advance")
		}
		if saved.Username != "new_username" {
			t.Errorf("expected username update, got %q", saved.Username)
		}
	})

	t.Run("registers a new user when none exists", func(t *testing.T) {
		t.Parallel()
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, NewMockTxManager(), newTestLogger())

		got, err := uc.RegisterOrFetch(ctx, 54321, "newcomer")
		if err != nil {
			t.Fatalf("RegisterOrFetch failed: %v", err)
		}

		saved, _ := repo.FindByID(ctx, repository.NoTX, got.ID)
		if saved == nil {
			t.Fatal("expected user persisted in repo")
		}
		if saved.TelegramID != 54321 {
			t.Errorf("expected telegram ID 54321, got %d", saved.TelegramID)
		}
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		t.Parallel()
		repo := NewMockUserRepo()
		wantErr := errors.New("database is down")
		repo.FindByTelegramIDFunc = func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
			return nil, wantErr
		}
		uc := usecase.NewUserUseCase(repo, NewMockTxManager(), newTestLogger())

		if _, err := uc.RegisterOrFetch(ctx, 12345, "any"); !errors.Is(err, wantErr) {
			t.Fatalf("expected wrapped repo error, got %v", err)
		}
	})
}

func TestUserUseCase_Count(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMockUserRepo()
	repo.Save(ctx, repository.NoTX, testUser("a", 1))
	repo.Save(ctx, repository.NoTX, testUser("b", 2))
	uc := usecase.NewUserUseCase(repo, NewMockTxManager(), newTestLogger())

	n, err := uc.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 users, got %d", n)
	}
}
