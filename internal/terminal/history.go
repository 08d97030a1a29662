package terminal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/dealsync/internal/model"
)

// DealCount fetches the total number of deals in terminal history.
func (c *Client) DealCount(ctx context.Context) (int, error) {
	var resp DealCountResponse
	if err := c.get(ctx, "/api/v1/history/deals/count", nil, &resp); err != nil {
		return 0, fmt.Errorf("get deal count: %w", err)
	}
	return resp.Total, nil
}

// DealTickets fetches a window of deal tickets ordered oldest first.
// offset is the index of the first deal to return (0 = oldest in history).
func (c *Client) DealTickets(ctx context.Context, offset, limit int) ([]uint64, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp DealTicketsResponse
	if err := c.get(ctx, "/api/v1/history/deals", query, &resp); err != nil {
		return nil, fmt.Errorf("get deal tickets: %w", err)
	}

	return resp.Tickets, nil
}

// DealByTicket fetches full detail for one deal.
func (c *Client) DealByTicket(ctx context.Context, ticket uint64) (*model.Deal, error) {
	var resp SingleDealResponse
	path := "/api/v1/history/deals/" + strconv.FormatUint(ticket, 10)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get deal %d: %w", ticket, err)
	}

	deal := ToDeal(resp.Deal)
	return &deal, nil
}
