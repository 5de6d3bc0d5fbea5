package bili

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// BasicInfo returns the first page of a video.
func (c *Client) BasicInfo(ctx context.Context, id VideoID) (*PageInfo, error) {
	q := url.Values{}
	id.query(q, "aid")
	pages, err := getJSON[[]PageInfo](ctx, c, "/x/player/pagelist", q)
	if err != nil {
		return nil, err
	}
	if len(*pages) == 0 {
		return nil, fmt.Errorf("%w: empty page list for %s", ErrUnexpectedResponse, id)
	}
	return &(*pages)[0], nil
}

// PlayURL resolves the single durl entry for the page cid at the requested quality.
func (c *Client) PlayURL(ctx context.Context, id VideoID, cid uint64, quality Quality) (*PlayURL, error) {
	q := url.Values{}
	id.query(q, "avid")
	q.Set("cid", strconv.FormatUint(cid, 10))
	q.Set("fnver", "0")
	for k, v := range quality.query() {
		q.Set(k, v)
	}
	data, err := getJSON[playURLData](ctx, c, "/x/player/playurl", q)
	if err != nil {
		return nil, err
	}
	if len(data.Durl) != 1 {
		return nil, fmt.Errorf("%w: expected 1 play url for %s, got %d", ErrUnexpectedResponse, id, len(data.Durl))
	}
	play := data.Durl[0]
	if play.URL == "" || play.Size <= 0 {
		return nil, fmt.Errorf("%w: incomplete play url for %s", ErrUnexpectedResponse, id)
	}
	return &play, nil
}

func (c *Client) View(ctx context.Context, id VideoID) (*View, error) {
	q := url.Values{}
	id.query(q, "aid")
	return getJSON[View](ctx, c, "/x/web-interface/view", q)
}
