package sched

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically deletes leftover download files. A file survives a
// crash mid-leech; anything older than staleAfter is garbage.
type Janitor struct {
	dir        string
	staleAfter time.Duration
	interval   time.Duration
	log        *zerolog.Logger
}

func NewJanitor(dir string, staleAfter, interval time.Duration, logger *zerolog.Logger) *Janitor {
	jLog := logger.With().Str("component", "Janitor").Logger()
	return &Janitor{
		dir:        dir,
		staleAfter: staleAfter,
		interval:   interval,
		log:        &jLog,
	}
}

func (j *Janitor) Run(ctx context.Context) error {
	j.log.Info().Str("dir", j.dir).Msg("Starting download janitor")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("Stopping download janitor")
			return ctx.Err()
		case <-ticker.C:
			n, err := j.Sweep()
			if err != nil {
				j.log.Error().Err(err).Msg("janitor sweep error")
			}
			if n > 0 {
				j.log.Info().Int("count", n).Msg("stale downloads removed")
			}
		}
	}
}

// Sweep removes stale leech files once and reports how many were deleted.
func (j *Janitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-j.staleAfter)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "leech_") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, e.Name())
		if err := os.Remove(path); err != nil {
			j.log.Warn().Err(err).Str("path", path).Msg("stale file removal failed")
			continue
		}
		removed++
	}
	return removed, nil
}
