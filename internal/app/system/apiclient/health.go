package apiclient

import (
	"context"
	"net/http"
)

// Health asks the API for its status ("healthy" when all is well).
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
