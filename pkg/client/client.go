package client

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ytget/tnadl/internal/logger"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 1

	userAgentValue   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	initialBackoff   = 200 * time.Millisecond
	maxBackoff       = 3 * time.Second
	successMinCode   = http.StatusOK                  // 200
	retryableMinCode = http.StatusInternalServerError // 500
)

// Config holds optional client parameters. Zero values use defaults.
type Config struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
	ProxyURL  string
}

// Client wraps http.Client with a browser-like User-Agent and an optional
// retry decoration. Retries defaults to a single attempt.
type Client struct {
	HTTPClient *http.Client
	Retries    int
	UserAgent  string

	log *logger.ComponentLogger
}

// newTransport returns a tuned transport. Compression is negotiated by the
// callers that need it so they can decode brotli as well as gzip.
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		DisableCompression:    true,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// New creates a new Client with a tuned Transport, default timeout, and retries.
func New() *Client {
	return NewWith(Config{})
}

// NewWith creates a new client with provided config. Zero values use defaults.
func NewWith(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgentValue
	}

	tr := newTransport()
	if cfg.ProxyURL != "" {
		if proxyFunc, err := proxyFromURLString(cfg.ProxyURL); err == nil {
			tr.Proxy = proxyFunc
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Retries:   retries,
		UserAgent: ua,
		log:       logger.Nop().WithComponent(logger.ComponentClient),
	}
}

// WithLogger attaches a logger used to report retried attempts.
func (c *Client) WithLogger(l *logger.Logger) *Client {
	c.log = l.WithComponent(logger.ComponentClient)
	return c
}

// DefaultUserAgent returns the browser-like User-Agent used when none is configured.
func DefaultUserAgent() string { return userAgentValue }

// Get performs a GET request. When Retries is greater than one, transient
// failures (HTTP 5xx or network errors) are retried with exponential
// backoff. Extra headers are applied after the User-Agent.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	ua := c.UserAgent
	if ua == "" {
		ua = userAgentValue
	}
	retries := c.Retries
	if retries < 1 {
		retries = 1
	}
	log := c.log
	if log == nil {
		log = logger.Nop().WithComponent(logger.ComponentClient)
	}

	var (
		resp *http.Response
		err  error
	)
	backoff := initialBackoff
	for attempt := 0; attempt < retries; attempt++ {
		req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if rerr != nil {
			return nil, rerr
		}
		req.Header.Set("User-Agent", ua)
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err = c.HTTPClient.Do(req)
		if err == nil && resp.StatusCode >= successMinCode && resp.StatusCode < retryableMinCode {
			return resp, nil
		}
		if attempt == retries-1 {
			break
		}
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		log.Debug("Retrying request", map[string]interface{}{"url": url, "attempt": attempt + 1, "error": errString(err, resp)})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return resp, err
}

func errString(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return resp.Status
	}
	return ""
}

// proxyFromURLString parses a proxy URL and returns a Proxy function.
func proxyFromURLString(raw string) (func(*http.Request) (*url.URL, error), error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return http.ProxyURL(u), nil
}
