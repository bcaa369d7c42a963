package upstream

import (
	"context"
	"encoding/json"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
)

// KPISummary fetches the key-figure payload for a date range.
func (c *Client) KPISummary(ctx context.Context, apiKey string, siteID int, from, to string) (*reports.KPISummary, error) {
	q := baseQuery(apiKey, siteID)
	q.Set("from", from)
	q.Set("to", to)

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/stats/summary", q, nil)
	if err != nil {
		return nil, err
	}

	var summary reports.KPISummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, &MalformedPayloadError{Raw: string(body)}
	}
	return &summary, nil
}

// GrossLast30Days fetches the rolling 30-day gross revenue series.
func (c *Client) GrossLast30Days(ctx context.Context, apiKey string, siteID int) ([]reports.GrossValue, error) {
	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/stats/gross-30d", baseQuery(apiKey, siteID), nil)
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

// OnlineTickets fetches the online-ticket count series and returns the
// summed count.
func (c *Client) OnlineTickets(ctx context.Context, apiKey string, siteID int, from, to string) (int, error) {
	q := baseQuery(apiKey, siteID)
	q.Set("from", from)
	q.Set("to", to)

	body, err := c.getOK(ctx, c.cfg.ReportsBase, "/v1/stats/online-tickets", q, nil)
	if err != nil {
		return 0, err
	}

	items, err := decodeItems(body, "values")
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		var v reports.CountValue
		if err := json.Unmarshal(item, &v); err != nil {
			return 0, &MalformedPayloadError{Raw: string(item)}
		}
		total += v.Count
	}
	return total, nil
}
