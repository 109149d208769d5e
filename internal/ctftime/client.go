// Package ctftime fetches upcoming competitions from the CTFtime API.
package ctftime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultURL       = "https://ctftime.org/api/v1/events/"
	DefaultLimit     = 20
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// MaxWeeks bounds how far ahead a window may reach.
	MaxWeeks = 520

	weekSeconds = 7 * 24 * 60 * 60
)

var ErrInvalidWeeks = fmt.Errorf("weeks must be between 1 and %d", MaxWeeks)

// StatusError is returned when CTFtime answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ctftime returned status %d: %s", e.Code, e.Body)
}

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	URL       string
	Limit     int
	UserAgent string
	Timeout   time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

type Client struct {
	http      *http.Client
	url       string
	limit     int
	userAgent string
	now       func() time.Time
	logger    *zap.Logger
}

func NewClient(logger *zap.Logger, opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		url:       opts.URL,
		limit:     opts.Limit,
		userAgent: opts.UserAgent,
		now:       opts.Now,
		logger:    logger.Named("ctftime"),
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.limit <= 0 {
		c.limit = DefaultLimit
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Window returns the epoch-second bounds covering weeksAhead weeks from now.
// finish-start is always weeksAhead*604800.
func (c *Client) Window(weeksAhead int) (start, finish int64) {
	start = c.now().Unix()
	return start, start + int64(weeksAhead)*weekSeconds
}

// Upcoming returns events starting within weeksAhead weeks. It performs a
// single request and never retries.
func (c *Client) Upcoming(ctx context.Context, weeksAhead int) ([]Event, error) {
	if weeksAhead < 1 || weeksAhead > MaxWeeks {
		return nil, ErrInvalidWeeks
	}
	start, finish := c.Window(weeksAhead)

	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parse ctftime url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("start", strconv.FormatInt(start, 10))
	q.Set("finish", strconv.FormatInt(finish, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	events, err := c.do(req)
	if err != nil {
		c.logger.Error("Error fetching events", zap.String("url", u.String()), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("Fetched events",
		zap.Int("count", len(events)),
		zap.Int64("start", start),
		zap.Int64("finish", finish))
	return events, nil
}

func (c *Client) do(req *http.Request) ([]Event, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
