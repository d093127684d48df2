// Package models contains the data types shared across the client.
package models

import "time"

// Folder is a node in the user's storage hierarchy.
// A nil ParentID marks a root; the server guarantees the hierarchy is acyclic.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ParentID  *string   `json:"parentId,omitempty"`
}

// IsRoot returns true when the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil || *f.ParentID == ""
}

// Photo is an uploaded image or video record with server-hosted URLs.
type Photo struct {
	ID           string     `json:"id"`
	FileName     string     `json:"fileName"`
	MimeType     string     `json:"mimeType"`
	SizeInBytes  int64      `json:"sizeInBytes"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
	FileURL      string     `json:"fileUrl"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
}
