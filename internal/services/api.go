package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// PlaylistClientOpts configures a [PlaylistClient].
type PlaylistClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    CredentialSource
	RateLimit  float64 // requests per second, 0 means unlimited
	Logger     *log.Logger
}

// PlaylistClient talks to the playlist service: list, append and clear.
//
// Each operation makes exactly one attempt. The credential is requested from the session on every call.
type PlaylistClient struct {
	baseURL    string
	httpClient *http.Client
	session    CredentialSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewPlaylistClient creates a new [PlaylistClient].
func NewPlaylistClient(opts PlaylistClientOpts) *PlaylistClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 && !math.IsInf(opts.RateLimit, 1) {
		limit = rate.Limit(opts.RateLimit)
	}

	return &PlaylistClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		session:    opts.Session,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(opts.Logger, "component", "playlist"),
	}
}

// BaseURL returns the service root requests are made against.
func (c *PlaylistClient) BaseURL() string {
	return c.baseURL
}

// ListPlaylist fetches the full playlist in server order.
func (c *PlaylistClient) ListPlaylist(ctx context.Context) (models.Snapshot, error) {
	body, err := c.do(ctx, OpFetch, http.MethodGet, "/playlist", "")
	if err != nil {
		return nil, err
	}

	var resp models.PlaylistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &OpError{Op: OpFetch, Cause: fmt.Errorf("failed to decode playlist: %w", err)}
	}

	if resp.Items == nil {
		return models.Snapshot{}, nil
	}
	return resp.Items, nil
}

// AddSong appends a song by title. A blank title is a no-op and makes no request.
//
// The title is sent as-is (not trimmed).
func (c *PlaylistClient) AddSong(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	_, err := c.do(ctx, OpAdd, http.MethodPost, "/add_song", encodeQuery("song_title", title))
	return err
}

// ClearPlaylist removes the playlist's items. The server decides what, if anything, remains.
func (c *PlaylistClient) ClearPlaylist(ctx context.Context) error {
	_, err := c.do(ctx, OpClear, http.MethodDelete, "/clear_playlist", "")
	return err
}

// encodeQuery builds key=value with spaces as %20 rather than +.
func encodeQuery(key, value string) string {
	return url.QueryEscape(key) + "=" + strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// do performs one request and returns the body of a 2xx response. Every failure is an [*OpError].
func (c *PlaylistClient) do(ctx context.Context, op Op, method, path, rawQuery string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &OpError{Op: op, Cause: err}
	}

	var cred models.Credential
	if c.session != nil {
		var err error
		if cred, err = c.session.Credential(ctx); err != nil {
			return nil, &OpError{Op: op, Cause: err}
		}
	}

	fullURL := c.baseURL + path
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &OpError{Op: op, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if !cred.Empty() {
		req.Header.Set("Authorization", "Bearer "+cred.String())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &OpError{Op: op, Cause: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OpError{Op: op, Status: resp.StatusCode, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		oe := &OpError{Op: op, Status: resp.StatusCode, Detail: errorDetail(body)}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			oe.Cause = shared.ErrNotAuthenticated
		}
		return nil, oe
	}

	return body, nil
}

// errorDetail extracts a FastAPI style {"detail": ...} message. Validation errors carry
// a list of objects with a msg field.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(payload.Detail, &msg); err == nil {
		return msg
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// IsNotFound reports whether err is a 404 from the playlist service, e.g. a song search with no match.
func IsNotFound(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Status == http.StatusNotFound
}
