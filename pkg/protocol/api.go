// Package protocol defines the API request/response types.
package protocol

import "github.com/lumapix/lumapix-client/pkg/models"

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Total   int `json:"total"`
}

// PhotoFilters echoes the filters the server applied to a photo listing.
type PhotoFilters struct {
	Sort   string `json:"sort,omitempty"`
	Search string `json:"search,omitempty"`
}

// PhotoListResponse is returned by GET /api/folders/{id}/photos.
type PhotoListResponse struct {
	Data       []models.Photo `json:"data"`
	Pagination Pagination     `json:"pagination"`
	Filters    PhotoFilters   `json:"filters"`
}

// FolderListResponse is returned by GET /api/folders.
type FolderListResponse struct {
	Data []models.Folder `json:"data"`
}

// CreateFolderRequest is the body for POST /api/folders.
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
}

// RenameFolderRequest is the body for PATCH /api/folders/{id}.
type RenameFolderRequest struct {
	Name string `json:"name"`
}

// MoveFolderRequest is the body for PATCH /api/folders/{id}/parent.
// A nil ParentID moves the folder to the root.
type MoveFolderRequest struct {
	ParentID *string `json:"parentId"`
}

// BulkDeleteRequest is the body for POST /api/photos/bulk-delete.
type BulkDeleteRequest struct {
	PhotoIDs []string `json:"photoIds"`
}

// BulkMoveRequest is the body for POST /api/photos/bulk-move.
type BulkMoveRequest struct {
	PhotoIDs       []string `json:"photoIds"`
	TargetFolderID string   `json:"targetFolderId"`
}

// BulkFailure describes a single item a bulk operation could not process.
type BulkFailure struct {
	PhotoID string `json:"photoId"`
	Reason  string `json:"reason"`
}

// BulkDeleteResponse is returned by POST /api/photos/bulk-delete.
type BulkDeleteResponse struct {
	Deleted []string      `json:"deleted"`
	Failed  []BulkFailure `json:"failed"`
	Summary struct {
		Total        int `json:"total"`
		DeletedCount int `json:"deletedCount"`
		FailedCount  int `json:"failedCount"`
	} `json:"summary"`
}

// BulkMoveResponse is returned by POST /api/photos/bulk-move.
type BulkMoveResponse struct {
	Moved   []string      `json:"moved"`
	Failed  []BulkFailure `json:"failed"`
	Summary struct {
		Total       int `json:"total"`
		MovedCount  int `json:"movedCount"`
		FailedCount int `json:"failedCount"`
	} `json:"summary"`
}

// InitUploadRequest is the body for POST /api/uploads.
type InitUploadRequest struct {
	FolderID string `json:"folderId"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// InitUploadResponse is returned when an upload session is created.
type InitUploadResponse struct {
	UploadID    string `json:"uploadId"`
	ChunkSize   int    `json:"chunkSize"`
	TotalChunks int    `json:"totalChunks"`
}

// UploadStatusResponse is returned by GET /api/uploads/{id}.
// ReceivedChunks lists the chunk indexes the server already holds, so an
// interrupted upload can resume without resending them.
type UploadStatusResponse struct {
	UploadID       string `json:"uploadId"`
	ChunkSize      int    `json:"chunkSize"`
	TotalChunks    int    `json:"totalChunks"`
	ReceivedChunks []int  `json:"receivedChunks"`
	Complete       bool   `json:"complete"`
}

// CompleteUploadResponse is returned by POST /api/uploads/{id}/complete.
type CompleteUploadResponse struct {
	Photo models.Photo `json:"photo"`
}

// Event is a server-sent change notification.
type Event struct {
	Type      string `json:"type"`
	PhotoID   string `json:"photoId,omitempty"`
	FolderID  string `json:"folderId,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Event types published on the /api/events stream.
const (
	EventPhotoCreated  = "photo.created"
	EventPhotoDeleted  = "photo.deleted"
	EventPhotoMoved    = "photo.moved"
	EventFolderChanged = "folder.changed"
)
