package query

import (
	"context"
	"testing"
	"time"

	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

func TestMain(m *testing.M) {
	logging.Nop()
	m.Run()
}

func seededCache() *Cache {
	c := NewCache(time.Minute)
	c.Put(Key(ResourcePhotos, "f1", "1", "50"), "f1 page 1")
	c.Put(Key(ResourcePhotos, "f1", "2", "50"), "f1 page 2")
	c.Put(Key(ResourcePhotos, "f2", "1", "50"), "f2 page 1")
	c.Put(FoldersKey(), "folder list")
	return c
}

func TestInvalidator_PhotoEventFlagsFolderPages(t *testing.T) {
	c := seededCache()
	inv := NewInvalidator(c)

	inv.Apply(protocol.Event{Type: protocol.EventPhotoCreated, FolderID: "f1"})

	if _, ok := c.Get(Key(ResourcePhotos, "f1", "1", "50")); ok {
		t.Error("f1 page 1 should be stale")
	}
	if _, ok := c.Get(Key(ResourcePhotos, "f1", "2", "50")); ok {
		t.Error("f1 page 2 should be stale")
	}
	if _, ok := c.Get(Key(ResourcePhotos, "f2", "1", "50")); !ok {
		t.Error("other folder's pages should stay fresh")
	}
	if _, ok := c.Get(FoldersKey()); !ok {
		t.Error("folder list should stay fresh")
	}
}

func TestInvalidator_PhotoEventWithoutFolderFlagsAllPhotos(t *testing.T) {
	c := seededCache()
	inv := NewInvalidator(c)

	inv.Apply(protocol.Event{Type: protocol.EventPhotoDeleted})

	if _, ok := c.Get(Key(ResourcePhotos, "f1", "1", "50")); ok {
		t.Error("f1 pages should be stale")
	}
	if _, ok := c.Get(Key(ResourcePhotos, "f2", "1", "50")); ok {
		t.Error("f2 pages should be stale")
	}
	if _, ok := c.Get(FoldersKey()); !ok {
		t.Error("folder list should stay fresh")
	}
}

func TestInvalidator_FolderEventFlagsFolderList(t *testing.T) {
	c := seededCache()
	inv := NewInvalidator(c)

	inv.Apply(protocol.Event{Type: protocol.EventFolderChanged})

	if _, ok := c.Get(FoldersKey()); ok {
		t.Error("folder list should be stale")
	}
	if _, ok := c.Get(Key(ResourcePhotos, "f1", "1", "50")); !ok {
		t.Error("photo pages should stay fresh")
	}
}

func TestInvalidator_UnknownEventIgnored(t *testing.T) {
	c := seededCache()
	inv := NewInvalidator(c)

	inv.Apply(protocol.Event{Type: "something.else"})

	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4", c.Len())
	}
	if _, ok := c.Get(FoldersKey()); !ok {
		t.Error("nothing should be flagged")
	}
}

func TestInvalidator_RunStopsOnChannelClose(t *testing.T) {
	c := seededCache()
	inv := NewInvalidator(c)

	events := make(chan protocol.Event)
	done := make(chan struct{})
	go func() {
		inv.Run(context.Background(), events)
		close(done)
	}()

	events <- protocol.Event{Type: protocol.EventFolderChanged}
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after channel close")
	}

	if _, ok := c.Get(FoldersKey()); ok {
		t.Error("folder list should be stale")
	}
}

func TestInvalidator_RunStopsOnContext(t *testing.T) {
	inv := NewInvalidator(NewCache(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		inv.Run(ctx, make(chan protocol.Event))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
