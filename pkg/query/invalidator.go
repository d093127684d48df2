package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// Resource kinds used as cache key roots.
const (
	ResourceFolders = "folders"
	ResourcePhotos  = "photos"
)

// FoldersKey is the cache key for the flat folder list.
func FoldersKey() string {
	return Key(ResourceFolders)
}

// PhotosPrefix is the invalidation prefix covering every cached page of a
// folder's photos, regardless of pagination or filters.
func PhotosPrefix(folderID string) string {
	return Key(ResourcePhotos, folderID)
}

// Invalidator applies server change notifications to the cache so that
// mutations made by other clients refresh this one's views.
type Invalidator struct {
	cache *Cache
}

// NewInvalidator creates an invalidator for cache.
func NewInvalidator(cache *Cache) *Invalidator {
	return &Invalidator{cache: cache}
}

// Run consumes events until the channel closes or ctx is cancelled.
func (i *Invalidator) Run(ctx context.Context, events <-chan protocol.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			i.Apply(ev)
		}
	}
}

// Apply invalidates the cache entries related to one event.
func (i *Invalidator) Apply(ev protocol.Event) {
	var flagged int

	switch ev.Type {
	case protocol.EventPhotoCreated, protocol.EventPhotoDeleted, protocol.EventPhotoMoved:
		if ev.FolderID != "" {
			flagged = i.cache.Invalidate(PhotosPrefix(ev.FolderID))
		} else {
			flagged = i.cache.Invalidate(Key(ResourcePhotos))
		}
	case protocol.EventFolderChanged:
		flagged = i.cache.Invalidate(FoldersKey())
	default:
		return
	}

	logging.L().Debug("cache invalidated by event",
		zap.String("type", ev.Type),
		zap.String("folder_id", ev.FolderID),
		zap.Int("entries", flagged),
	)
}
