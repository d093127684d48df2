package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumapix/lumapix-client/internal/logging"
	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// EventsClient subscribes to the server's change notification stream so
// other clients' mutations can invalidate this one's cached reads.
type EventsClient struct {
	baseURL      string
	httpClient   *http.Client
	reconnectMin time.Duration
	reconnectMax time.Duration

	mu        sync.RWMutex
	authToken string
}

// NewEventsClient creates an SSE client for the given server.
func NewEventsClient(baseURL string) *EventsClient {
	return &EventsClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 0, // the stream stays open indefinitely
		},
		reconnectMin: 1 * time.Second,
		reconnectMax: 30 * time.Second,
	}
}

// SetAuthToken sets the bearer token for stream requests.
func (c *EventsClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// Subscribe connects to the event stream and returns a channel of events
// plus a channel carrying each disconnect error before the reconnect wait.
// The connection reconnects with exponential backoff until ctx is
// cancelled; both channels close on cancellation. The error channel is
// best-effort: an error is dropped when the reader is not keeping up.
func (c *EventsClient) Subscribe(ctx context.Context) (<-chan protocol.Event, <-chan error) {
	events := make(chan protocol.Event, 100)
	errs := make(chan error, 1)

	go c.subscribeLoop(ctx, events, errs)

	return events, errs
}

func (c *EventsClient) subscribeLoop(ctx context.Context, events chan<- protocol.Event, errs chan<- error) {
	defer close(events)
	defer close(errs)

	delay := c.reconnectMin

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := c.connect(ctx, events)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			logging.L().Warn("event stream disconnected",
				zap.Error(err),
				zap.Duration("reconnect_in", delay),
			)

			select {
			case errs <- err:
			default:
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			delay *= 2
			if delay > c.reconnectMax {
				delay = c.reconnectMax
			}
			continue
		}

		delay = c.reconnectMin
	}
}

func (c *EventsClient) connect(ctx context.Context, events chan<- protocol.Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	c.mu.RLock()
	token := c.authToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	logging.L().Debug("event stream connected")

	scanner := bufio.NewScanner(resp.Body)
	var eventType, data string

	for scanner.Scan() {
		line := scanner.Text()

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if line == "" {
			if data != "" {
				event := protocol.Event{Type: eventType}
				json.Unmarshal([]byte(data), &event)

				select {
				case events <- event:
				default:
					logging.L().Debug("event dropped, channel full")
				}
			}
			eventType = ""
			data = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "event:") {
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}

	return fmt.Errorf("connection closed")
}
