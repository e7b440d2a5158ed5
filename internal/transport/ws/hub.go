package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/domain"
)

// Hub tracks connected clients and fans refresh events out to the ones
// subscribed to the changed topics.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	// done is closed when Run returns.
	done chan struct{}

	logger *zap.Logger
}

type broadcastMsg struct {
	topics []string
	data   []byte
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the Hub's main event loop and returns when ctx is done, after
// disconnecting every client. Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("ws client connected",
				zap.Stringer("client", client.id),
				zap.String("wallet", client.wallet),
				zap.Int("total", len(h.clients)),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug("ws client disconnected",
					zap.Stringer("client", client.id),
					zap.Int("total", len(h.clients)),
				)
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.IsSubscribedAny(msg.topics) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.logger.Warn("ws client too slow, dropping", zap.Stringer("client", client.id))
					h.drop(client)
				}
			}
		}
	}
}

// Publish sends an objects.changed event to every client subscribed to at
// least one of topics. Events published after Run has returned are dropped.
func (h *Hub) Publish(topics []string) {
	if len(topics) == 0 {
		return
	}
	evt, err := NewEvent(EventTypeObjectsChanged, ObjectsChangedPayload{Topics: topics})
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.Error(err))
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &broadcastMsg{topics: topics, data: data}:
	case <-h.done:
		h.logger.Debug("ws hub stopped, dropping event", zap.Strings("topics", topics))
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.done)
}

func normalizeTopic(topic string) string {
	if domain.IsAddress(topic) {
		return domain.NormalizeAddress(topic)
	}
	return topic
}
