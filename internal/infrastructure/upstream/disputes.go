package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Disputes fetches one page of payment disputes for a date range.
func (c *Client) Disputes(ctx context.Context, apiKey string, from, to string, page, perPage int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)
	q.Set("from", from)
	q.Set("to", to)
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if perPage > 0 {
		q.Set("perPage", fmt.Sprintf("%d", perPage))
	}

	body, err := c.getOK(ctx, c.cfg.DisputesBase, "/v1/disputes", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "disputes")
}

// DisputeDetail fetches a single dispute by its upstream id.
func (c *Client) DisputeDetail(ctx context.Context, apiKey, disputeID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)
	q.Set("disputeId", disputeID)

	body, err := c.getOK(ctx, c.cfg.DisputesBase, "/v1/disputes/detail", q, nil)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &MalformedPayloadError{Raw: string(body)}
	}
	return json.RawMessage(body), nil
}
