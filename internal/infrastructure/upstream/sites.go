package upstream

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/sites"
)

type sitesEnvelope struct {
	Sites []sites.Site `json:"sites"`
}

// Sites fetches the list of sites reachable by the given credential. The
// upstream answers either a {"sites": [...]} envelope or a bare array; both
// are accepted, anything else is a malformed payload.
func (c *Client) Sites(ctx context.Context, apiKey string) ([]sites.Site, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)

	body, err := c.getOK(ctx, c.cfg.TicketingBase, "/v1/sites", q, nil)
	if err != nil {
		return nil, err
	}

	var envelope sitesEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Sites != nil {
		return envelope.Sites, nil
	}

	var bare []sites.Site
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, &MalformedPayloadError{Raw: string(body)}
}
