package bili

import (
	"context"
	"fmt"
	"net/url"
)

// SeasonID reports the collection a video belongs to, if the page displays one.
func (c *Client) SeasonID(ctx context.Context, id VideoID) (uint64, bool, error) {
	view, err := c.View(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if !view.IsSeasonDisplay || view.SeasonID == 0 {
		return 0, false, nil
	}
	return view.SeasonID, true, nil
}

// SeasonList lists the episodes of the first section of the collection containing id.
func (c *Client) SeasonList(ctx context.Context, id VideoID) (*SeasonList, error) {
	q := url.Values{}
	id.query(q, "aid")
	detail, err := getJSON[viewDetail](ctx, c, "/x/web-interface/view/detail", q)
	if err != nil {
		return nil, err
	}
	season := detail.View.UGCSeason
	if season == nil || len(season.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s is not part of a season", ErrUnexpectedResponse, id)
	}
	return &SeasonList{
		SeasonID: season.ID,
		Name:     season.Title,
		Owner:    detail.View.Owner,
		Episodes: season.Sections[0].Episodes,
	}, nil
}
