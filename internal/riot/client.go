package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const authHeader = "X-Riot-Token"

var (
	// ErrNotFound marks a 404 from the provider (unknown riot ID, match, etc).
	ErrNotFound = errors.New("riot: not found")
	// ErrMalformedPayload marks a 2xx response whose body is not valid JSON.
	ErrMalformedPayload = errors.New("riot: malformed payload")
)

// StatusError is any non-2xx, non-404 provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot: unexpected status %d: %s", e.Code, e.Body)
}

// Client is a typed Riot API client. Regional endpoints (account, match)
// and platform endpoints (summoner, league) live on different hosts.
// The client does not retry; callers own backoff policy.
type Client struct {
	regionalURL string
	platformURL string
	apiKey      string
	pageSize    int
	http        *http.Client
}

type Config struct {
	RegionalURL string
	PlatformURL string
	APIKey      string
	PageSize    int
	Timeout     time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		regionalURL: cfg.RegionalURL,
		platformURL: cfg.PlatformURL,
		apiKey:      cfg.APIKey,
		pageSize:    cfg.PageSize,
		http:        &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))
	return get[Account](ctx, c, c.regionalURL+path, nil)
}

func (c *Client) ActiveRegion(ctx context.Context, game, puuid string) (*Region, error) {
	path := fmt.Sprintf("/riot/account/v1/region/by-game/%s/by-puuid/%s",
		url.PathEscape(game), url.PathEscape(puuid))
	return get[Region](ctx, c, c.regionalURL+path, nil)
}

func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	path := "/lol/summoner/v4/summoners/by-puuid/" + url.PathEscape(puuid)
	return get[Summoner](ctx, c, c.platformURL+path, nil)
}

func (c *Client) LeagueEntriesByPUUID(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	path := "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)
	entries, err := get[[]LeagueEntry](ctx, c, c.platformURL+path, nil)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// MatchIDsByPUUID lists match IDs most-recent-first. Unset options are
// omitted from the query; Count defaults to the configured page size.
func (c *Client) MatchIDsByPUUID(ctx context.Context, puuid string, opts MatchListOptions) ([]string, error) {
	q := url.Values{}
	if opts.Queue > 0 {
		q.Set("queue", strconv.Itoa(opts.Queue))
	}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.StartTime > 0 {
		q.Set("startTime", strconv.FormatInt(opts.StartTime, 10))
	}
	if opts.EndTime > 0 {
		q.Set("endTime", strconv.FormatInt(opts.EndTime, 10))
	}
	q.Set("start", strconv.Itoa(opts.Start))
	count := opts.Count
	if count <= 0 {
		count = c.pageSize
	}
	q.Set("count", strconv.Itoa(count))

	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	ids, err := get[[]string](ctx, c, c.regionalURL+path, q)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

// MatchByID fetches the full match blob. The payload is validated as JSON
// but kept opaque for storage.
func (c *Client) MatchByID(ctx context.Context, matchID string) (json.RawMessage, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	return c.getRaw(ctx, c.regionalURL+path)
}

func (c *Client) TimelineByID(ctx context.Context, matchID string) (json.RawMessage, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID) + "/timeline"
	return c.getRaw(ctx, c.regionalURL+path)
}

func (c *Client) do(ctx context.Context, rawURL string, q url.Values) ([]byte, error) {
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("riot: build request: %w", err)
	}
	req.Header.Set(authHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("riot: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("riot: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) getRaw(ctx context.Context, rawURL string) (json.RawMessage, error) {
	body, err := c.do(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON body", ErrMalformedPayload)
	}
	return json.RawMessage(body), nil
}

func get[T any](ctx context.Context, c *Client, rawURL string, q url.Values) (*T, error) {
	body, err := c.do(ctx, rawURL, q)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &out, nil
}
