package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 64
)

// Client represents a single WebSocket connection. Wallet is empty for
// anonymous viewers.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	id     uuid.UUID
	wallet string
	logger *zap.Logger

	// topics tracks what this client wants refresh hints for.
	topics map[string]struct{}
	mu     sync.RWMutex

	// send is never closed; the hub closes done to stop the pumps.
	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, wallet string) *Client {
	id := uuid.New()
	return &Client{
		hub:    hub,
		conn:   conn,
		id:     id,
		wallet: wallet,
		logger: hub.logger.With(zap.Stringer("client", id)),
		topics: make(map[string]struct{}),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// IsSubscribedAny reports whether the client follows any of topics.
func (c *Client) IsSubscribedAny(topics []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.topics[TopicAll]; ok {
		return true
	}
	for _, t := range topics {
		if _, ok := c.topics[normalizeTopic(t)]; ok {
			return true
		}
	}
	return false
}

func (c *Client) Subscribe(topics ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		if t != "" {
			c.topics[normalizeTopic(t)] = struct{}{}
		}
	}
}

func (c *Client) Unsubscribe(topics ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.topics, normalizeTopic(t))
	}
}

// ReadPump reads messages from the WebSocket and handles them.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		case <-ctx.Done():
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.logger.Debug("ws client closed")
			} else {
				c.logger.Debug("ws read error", zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("ws write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				c.logger.Debug("ws ping error", zap.Error(err))
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeSubscribe, EventTypeUnsubscribe:
		var p TopicsPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || len(p.Topics) == 0 {
			c.sendError("INVALID_PAYLOAD", "topics are required")
			return
		}
		if event.Type == EventTypeSubscribe {
			c.Subscribe(p.Topics...)
		} else {
			c.Unsubscribe(p.Topics...)
		}

	case EventTypePing:
		c.sendEvent(&Event{Type: EventTypePong, Timestamp: time.Now().Unix()})

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.sendEvent(evt)
}

// sendEvent queues evt unless the buffer is full or the client was dropped.
func (c *Client) sendEvent(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
	}
}
