package overpass

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/hideseek/quarry/internal/config"
	"github.com/hideseek/quarry/internal/errors"
)

// Client talks to an Overpass-style place-data provider. Responses are
// cached on disk by query hash so repeated resolutions of the same question
// do not refetch. The client performs no retry or backoff of its own; the
// provider-side timeout parameter is the only time bound.
type Client struct {
	endpoint string
	timeout  int
	httpc    *http.Client
	cache    *responseCache
}

// New creates a client from config. cacheDB may be nil to disable the
// on-disk response cache (tests, one-shot CLI runs).
func New(cfg *config.Config, cacheDB *sql.DB) *Client {
	var cache *responseCache
	if cacheDB != nil {
		cache = &responseCache{db: cacheDB, ttl: time.Duration(cfg.ResponseCacheTTLHours) * time.Hour}
	}
	return &Client{
		endpoint: cfg.OverpassEndpoint,
		timeout:  cfg.FetchTimeoutSeconds,
		httpc:    &http.Client{},
		cache:    cache,
	}
}

// FetchZone runs a query against the provider. Fallback filters are tried in
// order when the primary filter matches nothing. A response with a runtime
// remark is returned as-is (with its partial elements) so callers can apply
// the safety gate.
func (c *Client) FetchZone(ctx context.Context, q Query) (*Result, error) {
	filters := append([]string{q.Filter}, q.Fallbacks...)

	var last *Result
	for _, filter := range filters {
		raw := c.render(q, filter)
		res, err := c.fetchRaw(ctx, raw, q.Label)
		if err != nil {
			return nil, err
		}
		if res.RuntimeError() || len(res.Elements) > 0 {
			return res, nil
		}
		last = res
	}
	return last, nil
}

// render builds the full Overpass QL statement for one filter.
func (c *Client) render(q Query, filter string) string {
	timeout := q.TimeoutSeconds
	if timeout <= 0 {
		timeout = c.timeout
	}
	kind := q.ElementKind
	if kind == "" {
		kind = "nwr"
	}
	mode := q.OutputMode
	if mode == "" {
		mode = "body"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];", timeout)
	b.WriteString(kind)
	b.WriteString(filter)
	if q.BBox != nil {
		writeBBox(&b, *q.BBox)
	}
	fmt.Fprintf(&b, ";out %s;", mode)
	return b.String()
}

// writeBBox renders an orb bound in Overpass order (south,west,north,east).
func writeBBox(b *strings.Builder, bound orb.Bound) {
	fmt.Fprintf(b, "(%g,%g,%g,%g)", bound.Min[1], bound.Min[0], bound.Max[1], bound.Max[0])
}

// fetchRaw executes one rendered query, consulting the response cache first.
func (c *Client) fetchRaw(ctx context.Context, query, label string) (*Result, error) {
	if c.cache != nil {
		if body, ok := c.cache.get(query); ok {
			slog.Debug("provider cache hit", "label", label)
			return decodeResult(body)
		}
	}

	slog.Debug("provider fetch", "label", label)
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewInternal(fmt.Errorf("provider returned status %d for %q", resp.StatusCode, label))
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, err
	}
	// Never cache aborted evaluations; the next attempt may succeed.
	if c.cache != nil && !result.RuntimeError() {
		c.cache.put(query, body)
	}
	return result, nil
}

func decodeResult(body []byte) (*Result, error) {
	res := &Result{}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("decode provider response: %w", err))
	}
	return res, nil
}
