// Package fixtures fetches the dashboard's static JSON fixtures and turns
// every failure into one of a small set of typed errors.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/wtstats/wtstats/internal/adapters/cache"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/pkg/logger"
	"github.com/wtstats/wtstats/pkg/metrics"
)

// Fixture subpaths, relative to <basePath>/data/ and without extension.
const (
	PathManagers      = "managers"
	PathLeagueHistory = "league_history"
	PathDraftHistory  = "draft_history"
	PathArticles      = "articles/index"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
	maxPayload     = 32 << 20
)

// Client reads fixtures from an http(s) origin or a file:// export directory.
type Client struct {
	origin   string
	basePath string
	timeout  time.Duration
	http     *http.Client
	cache    cache.Cache
	log      logger.Logger
}

// New creates a client for origin, e.g. "https://example.github.io" or
// "file:///srv/wtstats/out". Nothing is retried.
func New(origin string, opts ...Option) (*Client, error) {
	c := &Client{
		timeout: defaultTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidOrigin, origin)
		}
		c.origin = u.Scheme + "://" + u.Host
		if c.http == nil {
			c.http = &http.Client{}
		}
	case "file":
		dir := u.Host + u.Path
		if dir == "" {
			dir = u.Opaque
		}
		if dir == "" {
			return nil, fmt.Errorf("%w: missing directory in %q", ErrInvalidOrigin, origin)
		}
		c.origin = "file://"
		c.http = &http.Client{Transport: fileTransport(dir, c.basePath)}
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidOrigin, u.Scheme)
	}
	if c.http.Timeout == 0 {
		// copy so a shared client such as http.DefaultClient is left untouched
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// BasePath returns the normalized site prefix.
func (c *Client) BasePath() string { return c.basePath }

// URL returns the absolute URL of a fixture subpath.
func (c *Client) URL(subpath string) string {
	return c.origin + c.basePath + "/data/" + strings.TrimPrefix(subpath, "/") + ".json"
}

// Cache returns the read-through cache, or nil when none is configured.
func (c *Client) Cache() cache.Cache { return c.cache }

// Get fetches and decodes the fixture at subpath. A cached payload is used
// when present; only payloads that decode and validate are cached.
func Get[T model.Fixture](ctx context.Context, c *Client, subpath string) (T, error) {
	return get[T](ctx, c, subpath, nil, nil)
}

// get is Get with a 404 replacement error and an optional check run on the
// decoded value. A value failing check is returned with the check error,
// counted under that error's outcome and not cached.
func get[T model.Fixture](ctx context.Context, c *Client, subpath string, onNotFound error, check func(T) error) (T, error) {
	var zero T

	if c.cache != nil {
		if e, ok := c.cache.Get(ctx, subpath); ok {
			v, err := decode[T](subpath, e.Payload)
			if err == nil {
				return v, nil
			}
			// should not happen; drop and refetch
			c.cache.Invalidate(ctx, subpath)
		}
	}

	start := time.Now()
	raw, err := c.fetch(ctx, subpath, onNotFound)
	var v T
	if err == nil {
		v, err = decode[T](subpath, raw)
		if err == nil && check != nil {
			if cerr := check(v); cerr != nil {
				c.record(ctx, subpath, start, cerr)
				return v, cerr
			}
		}
	}
	c.record(ctx, subpath, start, err)
	if err != nil {
		return zero, err
	}

	if c.cache != nil {
		c.cache.Put(ctx, subpath, raw)
	}
	c.log.Debug(ctx, "fixture fetched", logger.String("path", subpath), logger.Int("bytes", len(raw)))
	return v, nil
}

func (c *Client) record(ctx context.Context, subpath string, start time.Time, err error) {
	outcome := Outcome(err)
	metrics.RecordFixtureFetch(resourceLabel(subpath), outcome, float64(time.Since(start).Milliseconds()))
	if err != nil {
		c.log.Warn(ctx, "fixture fetch failed",
			logger.String("path", subpath),
			logger.String("outcome", outcome),
			logger.Error(err))
	}
}

func (c *Client) fetch(ctx context.Context, subpath string, onNotFound error) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(subpath), nil)
	if err != nil {
		return nil, &NetworkError{Path: subpath, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: subpath, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	if resp.StatusCode == http.StatusNotFound && onNotFound != nil {
		return nil, onNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{Path: subpath, StatusCode: resp.StatusCode, Body: string(body)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, &NetworkError{Path: subpath, Err: err}
	}
	return raw, nil
}

// decode checks required top-level keys before decoding into T and
// running its validation.
func decode[T model.Fixture](subpath string, raw []byte) (T, error) {
	var v T

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return v, &MalformedDataError{Path: subpath, Err: err}
	}
	var missing []string
	for _, k := range v.RequiredKeys() {
		if val, ok := top[k]; !ok || string(val) == "null" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return v, &MalformedDataError{Path: subpath, Missing: missing}
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &MalformedDataError{Path: subpath, Err: err}
	}
	if err := v.Validate(); err != nil {
		return v, &MalformedDataError{Path: subpath, Err: err}
	}
	return v, nil
}

func resourceLabel(subpath string) string {
	if strings.HasPrefix(subpath, "h2h/") {
		return "h2h"
	}
	return subpath
}

// Managers fetches data/managers.json.
func (c *Client) Managers(ctx context.Context) (model.ManagerIndex, error) {
	return Get[model.ManagerIndex](ctx, c, PathManagers)
}

// LeagueHistory fetches data/league_history.json.
func (c *Client) LeagueHistory(ctx context.Context) (model.LeagueHistory, error) {
	return Get[model.LeagueHistory](ctx, c, PathLeagueHistory)
}

// DraftHistory fetches data/draft_history.json.
func (c *Client) DraftHistory(ctx context.Context) (model.DraftHistory, error) {
	return Get[model.DraftHistory](ctx, c, PathDraftHistory)
}

// Articles fetches data/articles/index.json.
func (c *Client) Articles(ctx context.Context) (model.ArticleIndex, error) {
	return Get[model.ArticleIndex](ctx, c, PathArticles)
}

// Comparison fetches the head-to-head record of a and b in either order.
// A 404 is a *NoHistoryError. When the record names other owners it is
// returned together with a *rivalry.DataIntegrityError.
func (c *Client) Comparison(ctx context.Context, a, b int) (model.RivalryRecord, error) {
	if a <= 0 || b <= 0 || a == b {
		return model.RivalryRecord{}, fmt.Errorf("%w: %d and %d", ErrInvalidPair, a, b)
	}
	return get[model.RivalryRecord](ctx, c, rivalry.ComparisonPath(a, b), &NoHistoryError{Owner1: a, Owner2: b},
		func(rec model.RivalryRecord) error { return rivalry.CheckPair(rec, a, b) })
}
