// Package apiclient issues the dashboard's GET requests against the analytics backend.
//
// Status codes are checked before the body is parsed, so an HTML error page from a proxy surfaces as
// an HTTPStatusError instead of an obscure JSON syntax error. There are no retries; the caller
// decides what to do with a failure.
package apiclient

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

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iafilius/StackflowDashboard/src/logger"
)

// Endpoint paths relative to the API base.
const (
	PathCollect     = "/collect"
	PathTrend       = "/trend"
	PathTopNPairs   = "/topNpairs"
	PathWordCloud   = "/wordcloud"
	PathSolvability = "/solvability"
)

const (
	maxBodyBytes  = 16 << 20
	errBodyPrefix = 200
)

var log = logger.Component("client")

// Params are query parameters; values must be strings or numbers.
type Params map[string]any

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration
	// RequestsPerSecond limits outgoing requests. Zero disables the limiter.
	RequestsPerSecond float64
	// HTTPClient overrides the transport (tests). Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a thin GET wrapper around the backend endpoints.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// New validates opts and returns a ready client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", opts.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base %q: scheme must be http or https", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{base: base, http: hc}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.base }

// FetchJSON issues GET path?params and returns the validated JSON body.
func (c *Client) FetchJSON(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	full, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, full, "application/json")
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, &ParseError{URL: full, Err: errors.New("empty body")}
	}
	if !json.Valid([]byte(trimmed)) {
		var probe any
		perr := json.Unmarshal([]byte(trimmed), &probe)
		if perr == nil {
			perr = errors.New("invalid JSON")
		}
		return nil, &ParseError{URL: full, Err: perr}
	}
	return json.RawMessage(trimmed), nil
}

// FetchText issues GET path and returns the body as a string.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	full, err := c.buildURL(path, nil)
	if err != nil {
		return "", err
	}
	body, err := c.get(ctx, full, "text/plain")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, full, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{URL: full, Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &NetworkError{URL: full, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("id=%s GET %s failed: %v", reqID, full, err)
		return nil, &NetworkError{URL: full, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{URL: full, Err: fmt.Errorf("read body: %w", err)}
	}
	log.Debugf("id=%s GET %s status=%d bytes=%d took=%s", reqID, full, resp.StatusCode, len(body), time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > errBodyPrefix {
			snippet = snippet[:errBodyPrefix]
		}
		return nil, &HTTPStatusError{URL: full, Code: resp.StatusCode, Body: strings.TrimSpace(snippet)}
	}
	return body, nil
}

func (c *Client) buildURL(path string, params Params) (string, error) {
	full := c.base + "/" + strings.TrimLeft(path, "/")
	if len(params) == 0 {
		return full, nil
	}
	q := url.Values{}
	for k, v := range params {
		s, err := formatParam(v)
		if err != nil {
			return "", fmt.Errorf("param %q: %w", k, err)
		}
		q.Set(k, s)
	}
	// Encode sorts by key, which keeps URLs stable for logs and tests.
	return full + "?" + q.Encode(), nil
}

func formatParam(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return x.UTC().Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
