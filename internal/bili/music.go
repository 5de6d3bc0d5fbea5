package bili

import (
	"context"
	"net/url"
	"strconv"
)

// MusicInfo returns the background track of a page, or nil when it has none.
func (c *Client) MusicInfo(ctx context.Context, id VideoID, cid uint64) (*MusicInfo, error) {
	q := url.Values{}
	id.query(q, "aid")
	q.Set("cid", strconv.FormatUint(cid, 10))
	info, err := getJSON[playerInfo](ctx, c, "/x/player/wbi/v2", q)
	if err != nil {
		return nil, err
	}
	return info.BGMInfo, nil
}
