package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Rectangles fetches promotional rectangle content for a site. The content
// API authenticates with a signed bearer token, not the caller's API key.
func (c *Client) Rectangles(ctx context.Context, token string, siteID int) ([]json.RawMessage, error) {
	q := url.Values{}
	if siteID != 0 {
		q.Set("siteId", strconv.Itoa(siteID))
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	body, err := c.getOK(ctx, c.cfg.ContentBase, "/v1/rectangles", q, header)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "items")
}

// Banners fetches promotional banner content for a blog.
func (c *Client) Banners(ctx context.Context, blogID string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("blogId", blogID)

	body, err := c.getOK(ctx, c.cfg.ContentBase, "/v1/banners", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, "items")
}
