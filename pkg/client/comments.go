package client

import (
	"context"
	"fmt"
	"strconv"
)

// CommentListOptions are the query parameters for GetComments. Zero values
// are omitted and take the server defaults (newest, page 1, size 20).
type CommentListOptions struct {
	Sort     string // newest, oldest, top
	Page     int
	PageSize int
	Search   string
}

// GetComments fetches one flat page of comments. Use commenttree.Build to
// turn the page into a renderable thread.
func (c *Client) GetComments(ctx context.Context, videoID string, opts CommentListOptions) (*CommentsPage, error) {
	req := c.http.R().SetContext(ctx)

	if opts.Sort != "" {
		req.SetQueryParam("sort", opts.Sort)
	}
	if opts.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		req.SetQueryParam("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Search != "" {
		req.SetQueryParam("search", opts.Search)
	}

	var page CommentsPage
	resp, err := req.
		SetResult(&page).
		Get(fmt.Sprintf("/api/v1/videos/%s/comments", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateComment posts a new top-level comment
func (c *Client) CreateComment(ctx context.Context, videoID, message string) (*Comment, error) {
	var result struct {
		Comment Comment `json:"comment"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/comment", videoID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Comment, nil
}

// Reply posts a reply to an existing comment. The server keeps threads one
// level deep, so the returned reply's parent may be the target's own parent.
func (c *Client) Reply(ctx context.Context, videoID, commentID, message string) (*Comment, error) {
	var result struct {
		Reply Comment `json:"reply"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/videos/%s/comments/%s/reply", videoID, commentID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Reply, nil
}

// DeleteComment removes the viewer's own comment
func (c *Client) DeleteComment(ctx context.Context, videoID, commentID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/api/v1/videos/%s/comments/%s", videoID, commentID))
	return checkResponse(resp, err)
}
