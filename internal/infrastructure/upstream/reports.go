package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
)

// decodeItems accepts the two shapes the report hosts answer with, either
// an envelope keyed by the endpoint's collection name or a bare array, and
// fails closed (empty, no error shape-sniffing) on anything else.
func decodeItems(body []byte, key string) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			var items []json.RawMessage
			if err := json.Unmarshal(inner, &items); err == nil {
				return items, nil
			}
		}
		return nil, &MalformedPayloadError{Raw: string(body)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	return nil, &MalformedPayloadError{Raw: string(body)}
}

// Events fetches the event list, optionally scoped to a site.
func (c *Client) Events(ctx context.Context, apiKey string, siteID int) ([]json.RawMessage, error) {
	body, err := c.getOK(ctx, c.cfg.TicketingBase, "/v1/events", baseQuery(apiKey, siteID), nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "items")
}

// Orders fetches the order/transaction list for a date range. Callers bound
// the context: the orders host is the slowest of the family and gets a fixed
// upper limit.
func (c *Client) Orders(ctx context.Context, apiKey string, siteID int, from, to string) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OrdersTimeout)
	defer cancel()

	q := baseQuery(apiKey, siteID)
	q.Set("from", from)
	q.Set("to", to)

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/orders", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "orders")
}

// GrossPerDate fetches the per-day gross revenue series for a date range.
func (c *Client) GrossPerDate(ctx context.Context, apiKey string, siteID int, from, to string) ([]reports.GrossValue, error) {
	q := baseQuery(apiKey, siteID)
	q.Set("from", from)
	q.Set("to", to)

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/gross-per-date", q, nil)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(body, "values")
	if err != nil {
		return nil, err
	}

	values := make([]reports.GrossValue, 0, len(items))
	for _, item := range items {
		var v reports.GrossValue
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, &MalformedPayloadError{Raw: string(item)}
		}
		values = append(values, v)
	}
	return values, nil
}

// TopEvents fetches the top-n events by revenue for a date range.
func (c *Client) TopEvents(ctx context.Context, apiKey string, siteID int, from, to string, topN int) ([]json.RawMessage, error) {
	q := baseQuery(apiKey, siteID)
	q.Set("from", from)
	q.Set("to", to)
	if topN > 0 {
		q.Set("topn", fmt.Sprintf("%d", topN))
	}

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/events/top", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "items")
}

// Invoices fetches one page of invoice records.
func (c *Client) Invoices(ctx context.Context, apiKey string, page, perPage int) ([]reports.Invoice, int, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if perPage > 0 {
		q.Set("perPage", fmt.Sprintf("%d", perPage))
	}

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/invoices", q, nil)
	if err != nil {
		return nil, 0, err
	}

	var envelope struct {
		Data  []reports.Invoice `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, envelope.Total, nil
	}

	var bare []reports.Invoice
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, len(bare), nil
	}

	return nil, 0, &MalformedPayloadError{Raw: string(body)}
}
