// Package recall implements the HTTP client for the recording/transcription
// provider. It owns the authentication header contract and the uniform error
// classification; it never retries and inherits whatever timeout policy the
// injected http.Client carries.
package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codebuildervaibhav/meetrec/internal/normalize"
	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// DefaultBaseURL is the provider endpoint for pay-as-you-go accounts.
// Enterprise/region accounts override it via configuration.
const DefaultBaseURL = "https://api.recall.ai/api/v1"

// listPageSize is the fixed page size for bot listings. Full pagination
// traversal is out of scope; callers only ever see the first page.
const listPageSize = 50

// Config holds the provider credentials and defaults, injected once at
// startup. An empty APIKey is allowed and surfaces as Unauthorized on first
// use rather than at construction time.
type Config struct {
	BaseURL      string
	APIKey       string
	BotName      string
	LanguageCode string
}

// Client talks to the recording provider.
type Client struct {
	baseURL      string
	apiKey       string
	botName      string
	languageCode string
	http         *http.Client
}

// NewClient creates a provider client. A nil httpClient keeps the transport
// defaults (no explicit deadline, no retries).
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.BotName == "" {
		cfg.BotName = "MeetRec Bot"
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		botName:      cfg.BotName,
		languageCode: cfg.LanguageCode,
		http:         httpClient,
	}
}

// listResponse is the provider's paginated envelope.
type listResponse struct {
	Results []types.Bot `json:"results"`
	Count   int         `json:"count"`
}

// ListBots fetches the first page of bots as returned by the provider. The
// result is never nil.
func (c *Client) ListBots(ctx context.Context) ([]types.Bot, error) {
	var out listResponse
	path := fmt.Sprintf("/bot/?limit=%d", listPageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return []types.Bot{}, nil
	}
	return out.Results, nil
}

// GetBot fetches a single bot by id.
func (c *Client) GetBot(ctx context.Context, id string) (*types.Bot, error) {
	var bot types.Bot
	if err := c.do(ctx, http.MethodGet, "/bot/"+id+"/", nil, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// CreateBotParams describes a bot dispatch. JoinAt is passed through
// verbatim when set; absence means "join immediately".
type CreateBotParams struct {
	MeetingURL string
	BotName    string
	JoinAt     string
}

// CreateBot dispatches a recording bot to a meeting URL.
func (c *Client) CreateBot(ctx context.Context, p CreateBotParams) (*types.Bot, error) {
	if p.MeetingURL == "" {
		return nil, types.NewAPIError(types.ErrInvalidRequest, "create bot", "meeting_url is required")
	}
	if p.BotName == "" {
		p.BotName = c.botName
	}

	payload := map[string]interface{}{
		"meeting_url": p.MeetingURL,
		"bot_name":    p.BotName,
		"recording_config": map[string]interface{}{
			"transcript": map[string]interface{}{
				"provider": map[string]interface{}{
					"recallai_streaming": map[string]interface{}{
						"mode":          "prioritize_accuracy",
						"language_code": c.languageCode,
					},
				},
			},
		},
	}
	if p.JoinAt != "" {
		payload["join_at"] = p.JoinAt
	}

	var bot types.Bot
	if err := c.do(ctx, http.MethodPost, "/bot/", payload, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// DeleteBot removes a scheduled bot. Any 2xx counts as success.
func (c *Client) DeleteBot(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bot/"+id+"/", nil, nil)
}

// transcriptSearchResponse is the provider-side transcript search envelope.
type transcriptSearchResponse struct {
	Results []struct {
		ID   string `json:"id"`
		Data struct {
			DownloadURL string `json:"download_url"`
		} `json:"data"`
	} `json:"results"`
}

// FetchTranscriptEntries fetches the raw transcript for a bot. Tier 1
// follows the transcript locator on the bot's newest qualifying recording;
// tier 2 falls back to the provider-side search filtered by bot id,
// accepting only a result that verifiably belongs to this bot (the search
// endpoint has returned loosely-matched records). No locator at all yields
// an empty slice, not an error.
func (c *Client) FetchTranscriptEntries(ctx context.Context, bot *types.Bot) ([]types.RawTranscriptEntry, error) {
	if rec := normalize.LatestRecording(bot.Recordings, normalize.MediaTranscript); rec != nil {
		return c.download(ctx, normalize.ShortcutURL(*rec, normalize.MediaTranscript))
	}

	var out transcriptSearchResponse
	if err := c.do(ctx, http.MethodGet, "/transcript/?bot_id="+bot.ID, nil, &out); err != nil {
		return nil, err
	}
	for _, r := range out.Results {
		if r.Data.DownloadURL == "" {
			continue
		}
		if r.ID == bot.ID || strings.Contains(r.Data.DownloadURL, bot.ID) {
			return c.download(ctx, r.Data.DownloadURL)
		}
	}
	return []types.RawTranscriptEntry{}, nil
}

// download fetches transcript entries from a pre-signed locator. The URL is
// already authenticated, so no provider header is attached. An unreadable
// locator (expired link, upstream 4xx/5xx) degrades to an empty transcript.
func (c *Client) download(ctx context.Context, url string) ([]types.RawTranscriptEntry, error) {
	// The locator came from the provider, so a malformed one is an
	// upstream defect, not a caller mistake.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewAPIError(types.ErrUnknownUpstream, "download transcript", "%v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, types.NewAPIError(types.ErrNetwork, "download transcript", "%v (url: %s)", err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return []types.RawTranscriptEntry{}, nil
	}
	var entries []types.RawTranscriptEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, types.NewAPIError(types.ErrUnknownUpstream, "download transcript", "invalid transcript payload: %v", err)
	}
	if entries == nil {
		entries = []types.RawTranscriptEntry{}
	}
	return entries, nil
}

// do performs one authenticated provider call and classifies every failure.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return types.NewAPIError(types.ErrInvalidRequest, op, "encode request: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return types.NewAPIError(types.ErrInvalidRequest, op, "%v", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return types.NewAPIError(types.ErrNetwork, op, "%v (url: %s)", err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &types.APIError{
			Kind:    classifyStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Op:      op,
			Message: strings.TrimSpace(string(raw)),
			Body:    string(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewAPIError(types.ErrUnknownUpstream, op, "decode response: %v", err)
	}
	return nil
}

// classifyStatus maps an upstream HTTP status onto the error taxonomy.
func classifyStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.ErrUnauthorized
	case http.StatusNotFound:
		return types.ErrNotFound
	default:
		return types.ErrUnknownUpstream
	}
}
