package client

import (
	"context"
	"fmt"

	"github.com/lumapix/lumapix-client/pkg/format"
	"github.com/lumapix/lumapix-client/pkg/models"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// ListFolders fetches the user's full flat folder list.
func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var resp protocol.FolderListResponse
	if err := c.Get(ctx, "/api/folders", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateFolder creates a folder under parentID (nil for a root folder).
// The name is validated locally before any network call.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	if err := format.ValidateFolderName(name); err != nil {
		return nil, err
	}

	var folder models.Folder
	req := protocol.CreateFolderRequest{Name: name, ParentID: parentID}
	if err := c.Post(ctx, "/api/folders", req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// RenameFolder renames a folder. The name is validated locally first.
func (c *Client) RenameFolder(ctx context.Context, folderID, name string) (*models.Folder, error) {
	if err := format.ValidateFolderName(name); err != nil {
		return nil, err
	}

	var folder models.Folder
	req := protocol.RenameFolderRequest{Name: name}
	if err := c.Patch(ctx, "/api/folders/"+folderID, req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// MoveFolder reparents a folder; a nil parentID moves it to the root.
func (c *Client) MoveFolder(ctx context.Context, folderID string, parentID *string) (*models.Folder, error) {
	var folder models.Folder
	req := protocol.MoveFolderRequest{ParentID: parentID}
	if err := c.Patch(ctx, fmt.Sprintf("/api/folders/%s/parent", folderID), req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder deletes a folder and its contents.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	return c.Delete(ctx, "/api/folders/"+folderID, nil)
}
