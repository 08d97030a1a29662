package terminal

import (
	"context"
	"fmt"
)

// Account fetches the terminal's account identity. Used as the startup
// preflight: if this call fails the event source is unavailable and the
// agent must not start.
func (c *Client) Account(ctx context.Context) (*AccountResponse, error) {
	var resp AccountResponse
	if err := c.get(ctx, "/api/v1/account", nil, &resp); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &resp, nil
}
