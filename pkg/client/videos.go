package client

import (
	"context"
	"fmt"
)

// GetVideo fetches a video with its engagement counts. With a token set, the
// response also carries the viewer's own reaction state.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*VideoDetail, error) {
	var detail VideoDetail
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&detail).
		Get(fmt.Sprintf("/api/v1/videos/%s", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &detail, nil
}

// PatchMetadata reports the player-observed duration, which the server uses
// to compute the star watch-time requirement
func (c *Client) PatchMetadata(ctx context.Context, videoID string, duration float64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]float64{"duration": duration}).
		Patch(fmt.Sprintf("/api/v1/videos/%s/metadata", videoID))
	return checkResponse(resp, err)
}
