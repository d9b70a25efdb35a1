package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/adapter"
	"terabox-leech-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ adapter.FileFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher streams a resolved direct URL into a temp file under the
// configured download dir. Terabox mirrors drop connections mid-transfer
// constantly, so each attempt resumes from the bytes already written using a
// Range request.
type HTTPFetcher struct {
	dir         string
	maxAttempts int
	client      *http.Client
	log         *zerolog.Logger
}

func NewHTTPFetcher(cfg config.LeechConfig, logger *zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		dir:         cfg.DownloadDir,
		maxAttempts: cfg.MaxAttempts,
		client:      &http.Client{Timeout: cfg.DownloadTimeout},
		log:         logger,
	}
}

func (h *HTTPFetcher) Fetch(ctx context.Context, f *model.ResolvedFile, onProgress func(done, total int64)) (string, error) {
	defer logging.TraceDuration(h.log, "HTTPFetcher.Fetch")()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(h.dir, fmt.Sprintf("leech_%d_%s", time.Now().UnixNano(), sanitizeFilename(f.Name)))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer out.Close()

	var (
		written int64
		total   = f.Size
		lastErr error
	)
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			break
		}
		n, tot, err := h.stream(ctx, f.DirectURL, out, written, total, onProgress)
		written = n
		if tot > 0 {
			total = tot
		}
		if err == nil {
			return path, nil
		}
		lastErr = err
		h.log.Warn().Err(err).
			Int("attempt", attempt).
			Int64("written", written).
			Str("file", f.Name).
			Msg("download attempt failed")
		// brief backoff before resuming
		select {
		case <-time.After(time.Duration(attempt) * time.Second):
		case <-ctx.Done():
			attempt = h.maxAttempts
		}
	}

	out.Close()
	_ = os.Remove(path)
	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return "", fmt.Errorf("download %q after %d attempts: %w", f.Name, h.maxAttempts, lastErr)
}

// stream performs one GET, resuming at offset, and reports the absolute byte
// count now on disk plus the total size learned from the response when the
// caller did not know it.
func (h *HTTPFetcher) stream(ctx context.Context, url string, out *os.File, offset, total int64, onProgress func(done, total int64)) (int64, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if offset > 0 {
			// Server ignored the Range header; start over.
			if _, err := out.Seek(0, io.SeekStart); err != nil {
				return 0, 0, err
			}
			if err := out.Truncate(0); err != nil {
				return 0, 0, err
			}
			offset = 0
		}
	case http.StatusPartialContent:
	default:
		return 0, 0, fmt.Errorf("bad status: %s", resp.Status)
	}

	if total <= 0 && resp.ContentLength > 0 {
		total = offset + resp.ContentLength
	}

	buf := make([]byte, 512*1024)
	var written int64
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return offset + written, total, fmt.Errorf("write temp file: %w", werr)
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(offset+written, total)
			}
		}
		if rerr == io.EOF {
			return offset + written, total, nil
		}
		if rerr != nil {
			return offset + written, total, rerr
		}
	}
}

var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

func sanitizeFilename(name string) string {
	safe := unsafeFilenameRe.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, " .")
	if safe == "" {
		safe = "file_" + time.Now().Format("20060102_150405")
	}
	return safe
}
