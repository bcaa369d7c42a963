// Package upstream provides typed clients for the external ticketing API
// family and the content-management API. Each upstream host sits behind its
// own circuit breaker; non-2xx responses and transport failures surface as
// ErrUnavailable so callers can apply their fail-soft or fail-loud policy.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrUnavailable marks a transport failure, an open circuit breaker or a
// non-2xx upstream status.
var ErrUnavailable = errors.New("upstream unavailable")

// MalformedPayloadError marks an upstream body that could not be decoded.
// The raw text is carried for diagnostics.
type MalformedPayloadError struct {
	Raw string
}

func (e *MalformedPayloadError) Error() string {
	return "malformed upstream payload"
}

// Config carries the fixed upstream base URLs and call behavior.
type Config struct {
	TicketingBase string
	ReportsBase   string
	DisputesBase  string
	ContentBase   string

	Timeout            time.Duration
	OrdersTimeout      time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// Client performs HTTP calls against the upstream API family.
type Client struct {
	cfg      Config
	http     *http.Client
	logger   *logging.ChanneledLogger
	breakers map[string]*gobreaker.CircuitBreaker[*response]
}

type response struct {
	status int
	body   []byte
}

// NewClient creates an upstream client with one circuit breaker per host.
func NewClient(cfg Config, logger *logging.ChanneledLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.OrdersTimeout == 0 {
		cfg.OrdersTimeout = 10 * time.Second
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerOpenTimeout == 0 {
		cfg.BreakerOpenTimeout = 30 * time.Second
	}

	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*response]),
	}

	for _, base := range []string{cfg.TicketingBase, cfg.ReportsBase, cfg.DisputesBase, cfg.ContentBase} {
		if base == "" {
			continue
		}
		if _, exists := c.breakers[base]; exists {
			continue
		}
		c.breakers[base] = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
			Name:    base,
			Timeout: cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
			},
			// A caller-canceled request says nothing about the host's
			// health and must not accumulate toward an open circuit.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Alert().Warn("Upstream circuit breaker state change",
					"host", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return c
}

// BreakerStates returns the current breaker state per upstream host, for the
// operator surface.
func (c *Client) BreakerStates() map[string]string {
	states := make(map[string]string, len(c.breakers))
	for base, cb := range c.breakers {
		states[base] = cb.State().String()
	}
	return states
}

// get issues a GET against base+path with the given query and returns the
// raw response. Transport failures count against the breaker; upstream
// status codes are returned as data and judged by the caller.
func (c *Client) get(ctx context.Context, base, path string, query url.Values, header http.Header) (*response, error) {
	cb, ok := c.breakers[base]
	if !ok {
		return nil, fmt.Errorf("%w: unknown upstream host %s", ErrUnavailable, base)
	}

	start := time.Now()
	resp, err := cb.Execute(func() (*response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = query.Encode()
		for k, vals := range header {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		return &response{status: res.StatusCode, body: body}, nil
	})
	if err != nil {
		c.logger.Upstream().Warn("Upstream call failed",
			"host", base, "path", path, "error", err.Error(), "duration", time.Since(start))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open for %s", ErrUnavailable, base)
		}
		// Both sentinels stay inspectable: ErrUnavailable for the fail-soft
		// policy, context.Canceled for the superseded-request 409.
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c.logger.Upstream().Debug("Upstream call completed",
		"host", base, "path", path, "status", resp.status, "duration", time.Since(start))
	return resp, nil
}

// getOK is get restricted to 2xx responses; anything else is ErrUnavailable.
func (c *Client) getOK(ctx context.Context, base, path string, query url.Values, header http.Header) ([]byte, error) {
	resp, err := c.get(ctx, base, path, query, header)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s%s", ErrUnavailable, resp.status, base, path)
	}
	return resp.body, nil
}

// baseQuery builds the query common to all ticketing calls: the caller's API
// key, plus the site scope when a concrete site is selected. Site id zero is
// the synthetic "all sites" selection and sends no scoping parameter.
func baseQuery(apiKey string, siteID int) url.Values {
	q := url.Values{}
	q.Set("apikey", apiKey)
	if siteID != 0 {
		q.Set("siteid", fmt.Sprintf("%d", siteID))
	}
	return q
}
