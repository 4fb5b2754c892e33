package basemap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/santamap/pkg/buildinfo"
	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/observability"
)

const (
	defaultRequestTimeout = 10 * time.Second
	// Tile servers ask bulk clients to stay well below a few requests per second.
	defaultRate  = rate.Limit(4)
	defaultBurst = 2
	// maxTileBytes guards against a misconfigured URL streaming something huge.
	maxTileBytes = 4 << 20
)

// Client downloads single XYZ tiles.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	limiter   *rate.Limiter
	template  string
	userAgent string
	ttl       time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithCache stores fetched tiles in cc.
func WithCache(cc cache.Cache) ClientOption {
	return func(c *Client) {
		if cc != nil {
			c.cache = cc
		}
	}
}

// WithRateLimit sets the maximum request rate.
func WithRateLimit(r rate.Limit, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithTTL sets how long cached tiles stay fresh.
func WithTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.ttl = ttl }
}

// NewClient creates a tile client for an XYZ URL template.
func NewClient(template string, opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultRequestTimeout},
		cache:     cache.NewNullCache(),
		limiter:   rate.NewLimiter(defaultRate, defaultBurst),
		template:  template,
		userAgent: buildinfo.UserAgent(),
		ttl:       cache.DefaultTileTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Template returns the URL template.
func (c *Client) Template() string { return c.template }

// Tile returns the encoded image bytes of one tile, from cache when fresh.
func (c *Client) Tile(ctx context.Context, z, x, y int) ([]byte, error) {
	key := cache.TileKey(c.template, z, x, y)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "tile")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "tile")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := c.get(ctx, TileURL(c.template, z, x, y))
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "tile", len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/png,image/jpeg;q=0.9,*/*;q=0.5")

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %v", cache.ErrNetwork, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err)
	}
	if len(data) > maxTileBytes {
		return nil, fmt.Errorf("tile larger than %d bytes", maxTileBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}
