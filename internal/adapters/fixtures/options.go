package fixtures

import (
	"net/http"
	"strings"
	"time"

	"github.com/wtstats/wtstats/internal/adapters/cache"
	"github.com/wtstats/wtstats/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithBasePath sets the site path prefix ("" or "/WTStats").
func WithBasePath(p string) Option {
	return func(c *Client) {
		c.basePath = NormalizeBasePath(p)
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client. Ignored for file:// origins.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache puts a read-through cache in front of the fetches.
func WithCache(cc cache.Cache) Option {
	return func(c *Client) {
		c.cache = cc
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NormalizeBasePath returns "" or a prefix with a leading slash and no
// trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
