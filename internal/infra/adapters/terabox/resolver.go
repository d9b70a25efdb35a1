package terabox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"terabox-leech-bot/internal/config"
	"terabox-leech-bot/internal/domain"
	"terabox-leech-bot/internal/domain/model"
	"terabox-leech-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.LinkResolver = (*WdzoneResolver)(nil)

// WdzoneResolver implements adapter.LinkResolver against the wdzone resolution
// API. The API answers with emoji-decorated JSON keys; plain-key variants are
// accepted as a fallback because the upstream has changed shape before.
type WdzoneResolver struct {
	apiURL string
	client *http.Client
	log    *zerolog.Logger
}

func NewWdzoneResolver(cfg config.ResolverConfig, logger *zerolog.Logger) *WdzoneResolver {
	return &WdzoneResolver{
		apiURL: cfg.APIURL,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger,
	}
}

// wdzoneEnvelope mirrors the API response. Only the fields we read are listed.
type wdzoneEnvelope struct {
	Status      string          `json:"✅ Status"`
	StatusPlain string          `json:"status"`
	Extracted   json.RawMessage `json:"📜 Extracted Info"`
}

type wdzoneFile struct {
	DirectLink string `json:"🔽 Direct Download Link"`
	Title      string `json:"📂 Title"`
	SizeHuman  string `json:"📏 Size"`

	// plain-key fallbacks
	DownloadURL string `json:"download_url"`
	URL         string `json:"url"`
	Dlink       string `json:"dlink"`
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
}

func (r *WdzoneResolver) Resolve(ctx context.Context, shareURL string) (*model.ResolvedFile, error) {
	endpoint := r.apiURL + "?url=" + url.QueryEscape(strings.TrimSpace(shareURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build resolver request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolver call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolver returned %s: %w", resp.Status, domain.ErrResolutionFailed)
	}

	var env wdzoneEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode resolver response: %w", err)
	}

	status := env.Status
	if status == "" {
		status = env.StatusPlain
	}
	if status != "Success" {
		r.log.Debug().Str("status", status).Msg("resolver rejected link")
		return nil, fmt.Errorf("resolver status %q: %w", status, domain.ErrResolutionFailed)
	}

	file, err := firstExtracted(env.Extracted)
	if err != nil {
		return nil, err
	}

	direct := firstNonEmpty(file.DirectLink, file.DownloadURL, file.URL, file.Dlink)
	if direct == "" {
		return nil, fmt.Errorf("no direct link in resolver response: %w", domain.ErrResolutionFailed)
	}
	name := firstNonEmpty(file.Title, file.Name, file.Filename)
	if name == "" {
		name = "terabox_file"
	}
	size := file.Size
	if size == 0 && file.SizeHuman != "" {
		size = parseHumanSize(file.SizeHuman)
	}

	return &model.ResolvedFile{DirectURL: direct, Name: name, Size: size}, nil
}

// firstExtracted tolerates the API returning either a single object or a list.
func firstExtracted(raw json.RawMessage) (*wdzoneFile, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty extracted info: %w", domain.ErrResolutionFailed)
	}
	var list []wdzoneFile
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil, fmt.Errorf("empty extracted info: %w", domain.ErrResolutionFailed)
		}
		return &list[0], nil
	}
	var single wdzoneFile
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("unexpected extracted info shape: %w", domain.ErrResolutionFailed)
	}
	return &single, nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

var humanSizeRe = regexp.MustCompile(`([0-9.]+)\s*([KMGT]?B)`)

// parseHumanSize converts strings like "823.94 MB" to bytes. Returns 0 when
// the string does not parse; callers treat an unknown size as unbounded only
// after the download reports actual bytes.
func parseHumanSize(s string) int64 {
	m := humanSizeRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	mult := map[string]float64{"B": 1, "KB": 1 << 10, "MB": 1 << 20, "GB": 1 << 30, "TB": 1 << 40}[m[2]]
	if mult == 0 {
		return 0
	}
	return int64(n * mult)
}
