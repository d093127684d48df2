package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// ListPhotosParams are the query parameters for a paginated photo listing.
type ListPhotosParams struct {
	FolderID string
	Page     int
	PerPage  int
	Sort     string // e.g. "uploadedAt:desc", "fileName:asc"
	Search   string
}

// ListPhotos fetches one page of a folder's photos.
func (c *Client) ListPhotos(ctx context.Context, p ListPhotosParams) (*protocol.PhotoListResponse, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(p.PerPage))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	path := fmt.Sprintf("/api/folders/%s/photos", p.FolderID)
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp protocol.PhotoListResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkDeletePhotos deletes the given photos in one call. Partial failures
// are reported per item in the response, not as an error.
func (c *Client) BulkDeletePhotos(ctx context.Context, photoIDs []string) (*protocol.BulkDeleteResponse, error) {
	var resp protocol.BulkDeleteResponse
	req := protocol.BulkDeleteRequest{PhotoIDs: photoIDs}
	if err := c.Post(ctx, "/api/photos/bulk-delete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkMovePhotos moves the given photos into targetFolderID.
func (c *Client) BulkMovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) (*protocol.BulkMoveResponse, error) {
	var resp protocol.BulkMoveResponse
	req := protocol.BulkMoveRequest{PhotoIDs: photoIDs, TargetFolderID: targetFolderID}
	if err := c.Post(ctx, "/api/photos/bulk-move", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
