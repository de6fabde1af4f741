package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/errors"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client issues JSON GET requests to one upstream service. Temporary
// failures are retried per Backoff and response bodies are cached under
// their URL for TTL.
type Client struct {
	Service string
	HTTP    *http.Client
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Header  http.Header
	Backoff Backoff
}

// NewClient returns a client for service. A nil cache disables caching;
// header is sent with every request.
func NewClient(service string, c cache.Cache, ttl time.Duration, header http.Header) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		Service: service,
		HTTP:    &http.Client{Timeout: requestTimeout},
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		TTL:     ttl,
		Header:  header,
		Backoff: DefaultBackoff,
	}
}

// GetJSON decodes the response to url into v. A cached body that no longer
// decodes into v is fetched again.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	key := c.Keyer.ResponseKey(c.Service, url)
	if body, ok, _ := c.Cache.Get(ctx, key); ok && json.Unmarshal(body, v) == nil {
		return nil
	}

	var body []byte
	err := c.Backoff.Retry(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.fetch(ctx, url)
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "decode %s response", c.Service)
	}
	_ = c.Cache.Set(ctx, key, body, c.TTL)
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s request", c.Service)
	}
	for k, vs := range c.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "%s request", c.Service)
	}
	defer resp.Body.Close()

	if err := statusError(c.Service, resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s response", c.Service)
	}
	return body, nil
}

// statusError maps a non-2xx status to an error code. Only codes that
// [errors.Temporary] accepts are retried.
func statusError(service string, status int) error {
	var code errors.Code
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		code = errors.ErrCodeRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		code = errors.ErrCodeTimeout
	case status >= 500:
		code = errors.ErrCodeNetwork
	default:
		code = errors.ErrCodeInvalidInput
	}
	return errors.New(code, "%s responded %d %s", service, status, http.StatusText(status))
}
