package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/pkg/models"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// InitUpload opens a resumable upload session for a file.
func (c *Client) InitUpload(ctx context.Context, req protocol.InitUploadRequest) (*protocol.InitUploadResponse, error) {
	var resp protocol.InitUploadResponse
	if err := c.Post(ctx, "/api/uploads", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadChunk sends one chunk of an open upload session. Chunks may be
// sent in any order and resent idempotently.
func (c *Client) UploadChunk(ctx context.Context, uploadID string, index int, chunk []byte) error {
	path := fmt.Sprintf("/api/uploads/%s/chunks/%d", uploadID, index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(chunk))
	if err != nil {
		return err
	}
	req.ContentLength = int64(len(chunk))
	req.Header.Set("Content-Type", "application/octet-stream")
	return c.send(req, nil)
}

// UploadStatus reports which chunks the server already holds, so an
// interrupted upload can resume without resending them.
func (c *Client) UploadStatus(ctx context.Context, uploadID string) (*protocol.UploadStatusResponse, error) {
	var resp protocol.UploadStatusResponse
	if err := c.Get(ctx, "/api/uploads/"+uploadID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteUpload finalizes an upload session and returns the new photo.
func (c *Client) CompleteUpload(ctx context.Context, uploadID string) (*models.Photo, error) {
	var resp protocol.CompleteUploadResponse
	if err := c.Post(ctx, fmt.Sprintf("/api/uploads/%s/complete", uploadID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Photo, nil
}

// UploadProgress reports upload progress to a callback.
type UploadProgress struct {
	UploadID    string
	SentChunks  int
	TotalChunks int
	SentBytes   int64
	TotalBytes  int64
}

// UploadRequest describes a file to upload with the resumable protocol.
type UploadRequest struct {
	FolderID string
	FileName string
	MimeType string
	Size     int64
	Content  io.Reader

	// ResumeID resumes an interrupted session instead of opening a new
	// one; chunks the server already holds are skipped.
	ResumeID string

	// OnProgress, when non-nil, is called after every sent chunk.
	OnProgress func(UploadProgress)
}

// UploadFile drives the resumable upload protocol end to end: it opens (or
// resumes) a session, streams the content chunk by chunk, and finalizes
// the session into a photo record.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest) (*models.Photo, error) {
	var uploadID string
	var chunkSize, totalChunks int
	received := make(map[int]bool)

	if req.ResumeID != "" {
		status, err := c.UploadStatus(ctx, req.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("resume upload %s: %w", req.ResumeID, err)
		}
		if status.Complete {
			return c.CompleteUpload(ctx, req.ResumeID)
		}
		for _, idx := range status.ReceivedChunks {
			received[idx] = true
		}
		uploadID = status.UploadID
		chunkSize = status.ChunkSize
		totalChunks = status.TotalChunks
	}

	if uploadID == "" {
		init, err := c.InitUpload(ctx, protocol.InitUploadRequest{
			FolderID: req.FolderID,
			FileName: req.FileName,
			FileSize: req.Size,
			MimeType: req.MimeType,
		})
		if err != nil {
			return nil, fmt.Errorf("init upload: %w", err)
		}
		uploadID = init.UploadID
		chunkSize = init.ChunkSize
		totalChunks = init.TotalChunks
	}

	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if totalChunks <= 0 {
		totalChunks = chunkCount(req.Size, int64(chunkSize))
	}

	logging.L().Info("uploading file",
		zap.String("upload_id", uploadID),
		zap.String("file_name", req.FileName),
		zap.Int64("size", req.Size),
		zap.Int("chunks", totalChunks),
	)

	buf := make([]byte, chunkSize)
	var sentBytes int64
	sentChunks := len(received)

	for index := 0; index < totalChunks; index++ {
		n, err := io.ReadFull(req.Content, buf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read chunk %d: %w", index, err)
		}
		if n == 0 {
			break
		}

		if !received[index] {
			if err := c.UploadChunk(ctx, uploadID, index, buf[:n]); err != nil {
				return nil, fmt.Errorf("send chunk %d/%d: %w", index+1, totalChunks, err)
			}
			sentChunks++
			sentBytes += int64(n)
		}

		if req.OnProgress != nil {
			req.OnProgress(UploadProgress{
				UploadID:    uploadID,
				SentChunks:  sentChunks,
				TotalChunks: totalChunks,
				SentBytes:   sentBytes,
				TotalBytes:  req.Size,
			})
		}
	}

	photo, err := c.CompleteUpload(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("complete upload: %w", err)
	}
	return photo, nil
}

const defaultChunkSize = 5 * 1024 * 1024

func chunkCount(size, chunkSize int64) int {
	if size <= 0 || chunkSize <= 0 {
		return 1
	}
	return int((size + chunkSize - 1) / chunkSize)
}
