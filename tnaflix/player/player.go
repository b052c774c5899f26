// Package player talks to the ajax video-player endpoint that returns the
// markup fragment describing the available variants of a resource.
package player

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/pkg/client"
)

const (
	// DefaultBaseURL is the site root the endpoint path is appended to.
	DefaultBaseURL = "https://www.tnaflix.com"

	endpointPath       = "/ajax/video-player/"
	maxBodyBytes       = 16 << 20
	headerAccept       = "application/json, text/javascript, */*; q=0.01"
	headerAcceptEncode = "gzip, br"
)

// Envelope is the decoded endpoint response. Only HTML is consumed by the
// pipeline; the remaining top-level fields are kept raw for diagnostics.
type Envelope struct {
	HTML  string                     `json:"html"`
	Extra map[string]json.RawMessage `json:"-"`
}

// Client fetches metadata envelopes.
type Client struct {
	http    *client.Client
	baseURL string
	log     *logger.ComponentLogger
}

// New creates a Client using c for transport. A nil c uses client.New().
func New(c *client.Client) *Client {
	if c == nil {
		c = client.New()
	}
	return &Client{
		http:    c,
		baseURL: DefaultBaseURL,
		log:     logger.Nop().WithComponent(logger.ComponentPlayer),
	}
}

// WithBaseURL overrides the site root. Trailing slashes are ignored.
func (c *Client) WithBaseURL(base string) *Client {
	if b := strings.TrimRight(strings.TrimSpace(base), "/"); b != "" {
		c.baseURL = b
	}
	return c
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(l *logger.Logger) *Client {
	c.log = l.WithComponent(logger.ComponentPlayer)
	return c
}

// EndpointURL returns the metadata URL for id.
func (c *Client) EndpointURL(id string) string {
	return c.baseURL + endpointPath + id
}

// Fetch issues a single GET for the metadata of id and returns its envelope.
// Non-2xx statuses, network failures and undecodable bodies are reported as
// errs.ErrTransport; a missing or empty html field as errs.ErrEmptyPayload.
func (c *Client) Fetch(ctx context.Context, id string) (*Envelope, error) {
	endpoint := c.EndpointURL(id)
	c.log.Debug("Fetching metadata", map[string]interface{}{"url": endpoint})

	h := http.Header{}
	h.Set("Accept", headerAccept)
	h.Set("Accept-Encoding", headerAcceptEncode)
	h.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Get(ctx, endpoint, h)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", errs.ErrTransport, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: fetch %s: HTTP status %d", errs.ErrTransport, endpoint, resp.StatusCode)
	}

	reader, err := decodedBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s body: %v", errs.ErrTransport, endpoint, err)
	}
	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s body: %v", errs.ErrTransport, endpoint, err)
	}
	c.log.Trace("Metadata received", map[string]interface{}{"status": resp.StatusCode, "bytes": len(body)})

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s response: %v", errs.ErrTransport, endpoint, err)
	}
	if strings.TrimSpace(env.HTML) == "" {
		return nil, fmt.Errorf("%w: no html returned for video %s", errs.ErrEmptyPayload, id)
	}
	return env, nil
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	env := &Envelope{Extra: make(map[string]json.RawMessage, len(raw))}
	for k, v := range raw {
		if k != "html" {
			env.Extra[k] = v
			continue
		}
		// html may be null or a non-string; both count as absent.
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			env.HTML = s
		}
	}
	return env, nil
}

// decodedBody wraps the response body according to Content-Encoding.
func decodedBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
