//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

// ---- Mock TelegramBotAdapter ----

type MockTelegramBot struct {
	mu       sync.Mutex
	Sent     []string // texts passed to SendMessage
	Uploads  []string // filenames passed to UploadFile
	Captions []string

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
	UploadFileFunc  func(ctx context.Context, chatID int64, path, filename, caption string) error
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, text)
	return nil
}

func (m *MockTelegramBot) UploadFile(ctx context.Context, chatID int64, path, filename, caption string) error {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, chatID, path, filename, caption)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, filename)
	m.Captions = append(m.Captions, caption)
	return nil
}

func (m *MockTelegramBot) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

// ---- Mock StatusReporter ----

type MockStatus struct {
	mu      sync.Mutex
	Updates []string
	Deleted bool
}

var _ adapter.StatusReporter = (*MockStatus)(nil)

func (m *MockStatus) Update(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, text)
	return nil
}

func (m *MockStatus) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = true
	return nil
}

// ---- Mock LinkResolver ----

type MockResolver struct {
	mu    sync.Mutex
	Calls int

	ResolveFunc func(ctx context.Context, shareURL string) (*model.ResolvedFile, error)
}

var _ adapter.LinkResolver = (*MockResolver)(nil)

func (m *MockResolver) Resolve(ctx context.Context, shareURL string) (*model.ResolvedFile, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, shareURL)
	}
	return &model.ResolvedFile{DirectURL: "https://d.example/file", Name: "video.mp4", Size: 1 << 20}, nil
}

// ---- Mock FileFetcher ----

type MockFetcher struct {
	mu    sync.Mutex
	Calls int

	FetchFunc func(ctx context.Context, f *model.ResolvedFile, onProgress func(done, total int64)) (string, error)
}

var _ adapter.FileFetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Fetch(ctx context.Context, f *model.ResolvedFile, onProgress func(done, total int64)) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, f, onProgress)
	}
	return "/tmp/does-not-exist-" + uuid.NewString(), nil
}

// ---- Mock TokenVerifier ----

type MockVerifier struct {
	VerifyTokenFunc func(ctx context.Context, token string) (bool, error)
}

var _ adapter.TokenVerifier = (*MockVerifier)(nil)

func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (bool, error) {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	return true, nil
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User
	byTG map[int64]*model.User

	SaveFunc                func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByTelegramIDFunc    func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
	FindByIDFunc            func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	CountUsersFunc          func(ctx context.Context, tx repository.Tx) (int, error)
	IncrementLeechCountFunc func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byID: map[string]*model.User{}, byTG: map[int64]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.byID[cp.ID] = &cp
	r.byTG[cp.TelegramID] = &cp
	return nil
}

func (r *MockUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if r.FindByTelegramIDFunc != nil {
		return r.FindByTelegramIDFunc(ctx, tx, tgID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byTG[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if r.CountUsersFunc != nil {
		return r.CountUsersFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *MockUserRepo) IncrementLeechCount(ctx context.Context, tx repository.Tx, id string) error {
	if r.IncrementLeechCountFunc != nil {
		return r.IncrementLeechCountFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LeechCount++
	return nil
}

// ---- Mock LeechTaskRepository ----

type MockTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*model.LeechTask

	SaveFunc func(ctx context.Context, tx repository.Tx, t *model.LeechTask) error
}

var _ repository.LeechTaskRepository = (*MockTaskRepo)(nil)

func NewMockTaskRepo() *MockTaskRepo {
	return &MockTaskRepo{tasks: map[string]*model.LeechTask{}}
}

func (r *MockTaskRepo) Save(ctx context.Context, tx repository.Tx, t *model.LeechTask) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MockTaskRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.LeechTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MockTaskRepo) CountTasks(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks), nil
}

func (r *MockTaskRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.TaskStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

// LastStatus returns the status of the single stored task. Fails loudly via
// the zero value when the store is empty or holds more than one task.
func (r *MockTaskRepo) LastStatus() model.TaskStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tasks) != 1 {
		return ""
	}
	for _, t := range r.tasks {
		return t.Status
	}
	return ""
}

// ---- Mock VerificationStore ----

type MockVerificationStore struct {
	mu       sync.Mutex
	verified map[int64]bool

	MarkVerifiedFunc func(ctx context.Context, tgID int64) error
}

var _ repository.VerificationStore = (*MockVerificationStore)(nil)

func NewMockVerificationStore() *MockVerificationStore {
	return &MockVerificationStore{verified: map[int64]bool{}}
}

func (s *MockVerificationStore) MarkVerified(ctx context.Context, tgID int64) error {
	if s.MarkVerifiedFunc != nil {
		return s.MarkVerifiedFunc(ctx, tgID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[tgID] = true
	return nil
}

func (s *MockVerificationStore) IsVerified(ctx context.Context, tgID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[tgID], nil
}

func (s *MockVerificationStore) Revoke(ctx context.Context, tgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.verified, tgID)
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs the function immediately without a real transaction. Tests that
// need transactional behavior assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Helpers
// =============================

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func testUser(id string, tgID int64) *model.User {
	return &model.User{
		ID:           id,
		TelegramID:   tgID,
		Username:     "tester",
		RegisteredAt: time.Now(),
	}
}
