package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"grid-portal-be/internal/model"
	"grid-portal-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans the activity feed out to every connected portal session.
// Each logged-in user may hold several connections (tabs, devices), so
// clients are grouped by email. With Redis configured the feed also
// crosses instance boundaries.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

const redisChannel = "portal_activity"

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Email] = append(h.clients[client.Email], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "client registered", map[string]interface{}{"email": client.Email})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Email]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.Email] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.Email]) == 0 {
					delete(h.clients, client.Email)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes one activity item to every local connection and, if
// Redis is up, to the other instances.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "activity",
		"data": notification,
	})

	h.sendToLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), redisChannel, data)
	}
}

func (h *Hub) sendToLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// Slow consumer, drop the connection rather than block
				// the whole feed. The unregister handler closes Send.
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.sendToLocal([]byte(msg.Payload))
	}
}
