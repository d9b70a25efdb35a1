package shortlink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.TokenVerifier = (*Verifier)(nil)

// Verifier checks tokens against the shortlink provider's /api/verify
// endpoint.
type Verifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zerolog.Logger
}

func NewVerifier(cfg config.VerificationConfig, logger *zerolog.Logger) *Verifier {
	base := cfg.ShortlinkURL
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Verifier{
		baseURL: base,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

func (v *Verifier) VerifyToken(ctx context.Context, token string) (bool, error) {
	q := url.Values{}
	q.Set("api_key", v.apiKey)
	q.Set("token", token)
	endpoint := v.baseURL + "/api/verify?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("shortlink verify call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("shortlink verify returned %s", resp.Status)
	}
	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode verify response: %w", err)
	}
	return out.Success, nil
}
