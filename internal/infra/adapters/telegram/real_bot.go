package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"terabox-leech-bot/internal/application"
	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/infra/metrics"
	red "terabox-leech-bot/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	maxUpload   int64
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, maxUpload int64, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		maxUpload:     maxUpload,
		log:           logger,
		adminIDsMap:   adminMap,
		updateWorkers: workers,
	}, nil
}

// StartPolling long-polls Telegram and fans updates out to a bounded worker
// pool. Blocks until ctx is cancelled.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if err := r.setMenuCommands(); err != nil {
		r.log.Warn().Err(err).Msg("failed to set bot menu commands")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// setMenuCommands publishes the command menu shown in the Telegram UI.
func (r *RealTelegramBotAdapter) setMenuCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Help"},
		tgbotapi.BotCommand{Command: "leech", Description: "Leech a Terabox link"},
		tgbotapi.BotCommand{Command: "verify", Description: "Verify your access token"},
		tgbotapi.BotCommand{Command: "help", Description: "Show usage"},
	)
	_, err := r.bot.Request(cmds)
	return err
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// UploadFile delivers a local file into the chat, picking the Telegram media
// kind from the filename extension so players render videos and audio inline.
func (r *RealTelegramBotAdapter) UploadFile(ctx context.Context, chatID int64, path, filename, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	file := tgbotapi.FilePath(path)
	var msg tgbotapi.Chattable
	switch mediaKind(filename) {
	case mediaVideo:
		v := tgbotapi.NewVideo(chatID, file)
		v.Caption = caption
		v.SupportsStreaming = true
		msg = v
	case mediaAudio:
		a := tgbotapi.NewAudio(chatID, file)
		a.Caption = caption
		msg = a
	case mediaPhoto:
		p := tgbotapi.NewPhoto(chatID, file)
		p.Caption = caption
		msg = p
	default:
		d := tgbotapi.NewDocument(chatID, file)
		d.Caption = caption
		msg = d
	}

	_, err := r.bot.Send(msg)
	return err
}

type mediaType int

const (
	mediaDocument mediaType = iota
	mediaVideo
	mediaAudio
	mediaPhoto
)

func mediaKind(filename string) mediaType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v":
		return mediaVideo
	case ".mp3", ".flac", ".m4a", ".ogg", ".wav", ".opus":
		return mediaAudio
	case ".jpg", ".jpeg", ".png", ".webp":
		return mediaPhoto
	default:
		return mediaDocument
	}
}

// statusReporter edits one pinned progress message for the lifetime of a leech
// request.
type statusReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	msgID    int
	lastText string
}

var _ adapter.StatusReporter = (*statusReporter)(nil)

func (r *RealTelegramBotAdapter) newStatusReporter(chatID int64) *statusReporter {
	return &statusReporter{bot: r.bot, chatID: chatID}
}

func (s *statusReporter) Update(ctx context.Context, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.lastText {
		return nil
	}

	if s.msgID == 0 {
		sent, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text))
		if err != nil {
			return err
		}
		s.msgID = sent.MessageID
		s.lastText = text
		return nil
	}

	if _, err := s.bot.Send(tgbotapi.NewEditMessageText(s.chatID, s.msgID, text)); err != nil {
		return err
	}
	s.lastText = text
	return nil
}

func (s *statusReporter) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.msgID == 0 {
		return nil
	}
	_, err := s.bot.Request(tgbotapi.NewDeleteMessage(s.chatID, s.msgID))
	s.msgID = 0
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	message := update.Message
	tgID := message.From.ID

	command := message.Command()
	limKey := "/" + command
	if command == "" {
		limKey = "message"
	}
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, limKey), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return r.SendMessage(ctx, message.Chat.ID, "Rate limit exceeded. Please try again later.")
		}
	}

	if fn, ok := r.commandRoutes()[command]; ok {
		return fn(ctx, message)
	}
	// Bare Terabox links are treated as /leech; anything else gets usage.
	if command == "" && looksLikeShareLink(message.Text) {
		return r.handleLeechArg(ctx, message, strings.TrimSpace(message.Text))
	}
	return r.handleHelpCommand(ctx, message)
}

func looksLikeShareLink(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}
