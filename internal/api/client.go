package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marks-cli/internal/bootstrap"
	"marks-cli/internal/model"
	"marks-cli/internal/suggest"
)

// csrfHeader carries the bootstrap token on every state-mutating request.
const csrfHeader = "X-CSRF-Token"

// Client talks to the bookmark navigation server's JSON API. It is
// configured once from the RuntimeConfig and is safe for concurrent use.
type Client struct {
	base *url.URL
	csrf string
	hc   *http.Client
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

func NewClient(cfg bootstrap.RuntimeConfig) (*Client, error) {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("api: base url must be absolute")
	}
	return &Client{
		base: u,
		csrf: cfg.CSRFToken,
		hc:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Suggest queries ranked suggestions for term. An empty term returns an
// empty set without a request; the overlay core already guarantees this,
// the check here just keeps scriptable use consistent.
func (c *Client) Suggest(ctx context.Context, term string, limit int) ([]suggest.Result, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", term)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Suggestions []suggest.Result `json:"suggestions"`
	}
	if err := c.getJSON(ctx, "/suggest?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Click records a bookmark click and returns the new click count. This is
// the client's one state-mutating call; it always carries the CSRF token.
func (c *Client) Click(ctx context.Context, id int64) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/websites/%d/click", id), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set(csrfHeader, c.csrf)

	var out struct {
		ClickCount int64 `json:"clickCount"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.ClickCount, nil
}

// Bookmarks fetches the full visible bookmark set, used by the offline
// cache sync.
func (c *Client) Bookmarks(ctx context.Context) ([]model.Bookmark, error) {
	var out struct {
		Websites []model.Bookmark `json:"websites"`
	}
	if err := c.getJSON(ctx, "/websites", &out); err != nil {
		return nil, err
	}
	return out.Websites, nil
}

// FetchBootstrap retrieves the raw bootstrap payload from a server. The
// bytes are handed to bootstrap.Bridge unparsed; this function is the Go
// stand-in for the config object a server-rendered page would inject.
func FetchBootstrap(ctx context.Context, serverURL string) ([]byte, error) {
	u := strings.TrimRight(serverURL, "/") + "/api/bootstrap"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := strings.TrimRight(c.base.String(), "/") + path
	return http.NewRequestWithContext(ctx, method, u, body)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(body, v)
}
