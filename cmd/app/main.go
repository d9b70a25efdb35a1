package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"terabox-leech-bot/internal/application"
	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/infra/adapters/shortlink"
	"terabox-leech-bot/internal/infra/adapters/terabox"
	tele "terabox-leech-bot/internal/infra/adapters/telegram"
	pg "terabox-leech-bot/internal/infra/db/postgres"
	"terabox-leech-bot/internal/infra/downloader"
	httpapi "terabox-leech-bot/internal/infra/http"
	"terabox-leech-bot/internal/infra/logging"
	"terabox-leech-bot/internal/infra/metrics"
	red "terabox-leech-bot/internal/infra/redis"
	"terabox-leech-bot/internal/infra/sched"
	"terabox-leech-bot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop bot)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	verifyStore := red.NewVerificationStore(redisClient, cfg.Verification.Expire)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	taskRepo := pg.NewPostgresLeechTaskRepo(pool)

	// ---- Adapters ----
	resolver := terabox.NewWdzoneResolver(cfg.Resolver, logger)
	fetcher := downloader.NewHTTPFetcher(cfg.Leech, logger)
	verifier := shortlink.NewVerifier(cfg.Verification, logger)

	// The facade is filled in after the usecases exist; the Telegram adapter
	// needs it up front and the leech usecase needs the adapter's upload port.
	facade := &application.BotFacade{}
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, cfg.Leech.MaxUploadBytes, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	leechUC := usecase.NewLeechUseCase(resolver, fetcher, botAdapter, taskRepo, userRepo, cfg.Leech.MaxUploadBytes, logger)
	verifyUC := usecase.NewVerificationUseCase(cfg.Verification, verifier, verifyStore, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, taskRepo, logger)

	facade.UserUC = userUC
	facade.LeechUC = leechUC
	facade.VerifyUC = verifyUC
	facade.StatsUC = statsUC

	// ---- Telegram polling ----
	if strings.ToLower(cfg.Bot.Mode) != "polling" && cfg.Bot.Mode != "" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Health / metrics HTTP ----
	srv := httpapi.NewServer(cfg.Health, version, logger)
	go func() {
		if err := srv.Start(); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Download janitor ----
	janitor := sched.NewJanitor(cfg.Leech.DownloadDir, cfg.Leech.StaleAfter, 15*time.Minute, logger)
	go func() { _ = janitor.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
}
