package main

import (
	"context"
	"flag"
	"log"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"terabox-leech-bot/internal/config"
	pg "terabox-leech-bot/internal/infra/db/postgres"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		telegram_id    BIGINT UNIQUE NOT NULL,
		username       TEXT NOT NULL DEFAULT '',
		registered_at  TIMESTAMPTZ NOT NULL,
		last_active_at TIMESTAMPTZ,
		leech_count    BIGINT NOT NULL DEFAULT 0,
		is_admin       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users (telegram_id)`,
	`CREATE TABLE IF NOT EXISTS leech_tasks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users (id),
		chat_id     BIGINT NOT NULL,
		share_url   TEXT NOT NULL,
		filename    TEXT NOT NULL DEFAULT '',
		size        BIGINT NOT NULL DEFAULT 0,
		status      TEXT NOT NULL,
		fail_reason TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leech_tasks_user_id ON leech_tasks (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leech_tasks_status ON leech_tasks (status)`,
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("migrate: %v\nstatement:\n%s", err, stmt)
		}
	}
	log.Println("schema up to date")
}
