package upstream

import (
	"context"
	"net/url"
)

// Identity calls the upstream identity endpoint for the given credentials
// and relays status and body verbatim. The caller decides how to interpret
// non-2xx responses; only transport-level failures return an error.
func (c *Client) Identity(ctx context.Context, username, apiKey string) (int, []byte, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)
	if username != "" {
		q.Set("username", username)
	}

	resp, err := c.get(ctx, c.cfg.TicketingBase, "/v1/identity", q, nil)
	if err != nil {
		return 0, nil, err
	}
	return resp.status, resp.body, nil
}

// Relay forwards a GET to a fixed resource on the given base and returns
// upstream status and body verbatim. Used by the generic keyed proxy and
// the site list relay.
func (c *Client) Relay(ctx context.Context, base, path string, query url.Values) (int, []byte, error) {
	resp, err := c.get(ctx, base, path, query, nil)
	if err != nil {
		return 0, nil, err
	}
	return resp.status, resp.body, nil
}

// TicketingBase exposes the ticketing host for resource routing.
func (c *Client) TicketingBase() string { return c.cfg.TicketingBase }

// ReportsBase exposes the reports host for resource routing.
func (c *Client) ReportsBase() string { return c.cfg.ReportsBase }

// DisputesBase exposes the disputes host for resource routing.
func (c *Client) DisputesBase() string { return c.cfg.DisputesBase }
