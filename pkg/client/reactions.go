package client

import (
	"context"
	"fmt"
)

// LikeVideo toggles the viewer's like on a video
func (c *Client) LikeVideo(ctx context.Context, videoID string) (*ReactionResult, error) {
	var result ReactionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/like", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// DislikeVideo toggles the viewer's dislike on a video
func (c *Client) DislikeVideo(ctx context.Context, videoID string) (*ReactionResult, error) {
	var result ReactionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/dislike", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// StarVideo toggles the viewer's star on a video. watchedSeconds is the
// locally tracked distinct-seconds count; starring fails with a
// precondition error when it is under 20% of the video duration.
func (c *Client) StarVideo(ctx context.Context, videoID string, watchedSeconds int) (*StarResult, error) {
	var result StarResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int{"watched_seconds": watchedSeconds}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/star", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeComment toggles the viewer's like on a comment
func (c *Client) LikeComment(ctx context.Context, videoID, commentID string) (*CommentReactionResult, error) {
	var result CommentReactionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/comments/%s/like", videoID, commentID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// DislikeComment toggles the viewer's dislike on a comment
func (c *Client) DislikeComment(ctx context.Context, videoID, commentID string) (*CommentReactionResult, error) {
	var result CommentReactionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/comments/%s/dislike", videoID, commentID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}
