package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rickgao/dealsync/internal/model"
)

// PositionByID fetches the live snapshot of an open position. Returns
// ErrPositionGone when the position no longer exists, which callers treat
// as an expected race rather than a failure.
func (c *Client) PositionByID(ctx context.Context, id uint64) (*model.Position, error) {
	var resp SinglePositionResponse
	path := "/api/v1/positions/" + strconv.FormatUint(id, 10)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		var bridgeErr *BridgeError
		if errors.As(err, &bridgeErr) && bridgeErr.StatusCode == 404 {
			return nil, ErrPositionGone
		}
		return nil, fmt.Errorf("get position %d: %w", id, err)
	}

	pos := ToPosition(resp.Position)
	return &pos, nil
}
