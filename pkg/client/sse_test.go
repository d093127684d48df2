package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumapix/lumapix-client/pkg/protocol"
)

func TestEventsClient_ParsesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Authorization") != "Bearer sse-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, ": ping\n\n")
		fmt.Fprint(w, "event: photo.created\n")
		fmt.Fprint(w, "data: {\"type\":\"photo.created\",\"photoId\":\"p1\",\"folderId\":\"f1\"}\n\n")
		fmt.Fprint(w, "event: folder.changed\n")
		fmt.Fprint(w, "data: {\"type\":\"folder.changed\",\"folderId\":\"f2\"}\n\n")
		flusher.Flush()

		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewEventsClient(srv.URL)
	c.SetAuthToken("sse-token")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _ := c.Subscribe(ctx)

	var got []protocol.Event
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event channel closed early")
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out after %d events", len(got))
		}
	}

	if got[0].Type != protocol.EventPhotoCreated || got[0].PhotoID != "p1" || got[0].FolderID != "f1" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Type != protocol.EventFolderChanged || got[1].FolderID != "f2" {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestEventsClient_ChannelsCloseOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewEventsClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	events, errs := c.Subscribe(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()

	deadline := time.After(2 * time.Second)
	for events != nil || errs != nil {
		select {
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		case <-deadline:
			t.Fatal("channels did not close after cancellation")
		}
	}
}

func TestEventsClient_ReconnectsAfterDrop(t *testing.T) {
	connects := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connects <- struct{}{}
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		// Drop the connection immediately; the client should come back.
	}))
	defer srv.Close()

	c := NewEventsClient(srv.URL)
	c.reconnectMin = 10 * time.Millisecond
	c.reconnectMax = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Subscribe(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-connects:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d connections before timeout", i)
		}
	}
}

func TestEventsClient_ReportsDisconnectErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		// Drop the connection immediately.
	}))
	defer srv.Close()

	c := NewEventsClient(srv.URL)
	c.reconnectMin = 10 * time.Millisecond
	c.reconnectMax = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errs := c.Subscribe(ctx)

	select {
	case err, ok := <-errs:
		if !ok {
			t.Fatal("error channel closed before delivering an error")
		}
		if err == nil {
			t.Fatal("nil error on disconnect")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported after the server dropped the stream")
	}
}
