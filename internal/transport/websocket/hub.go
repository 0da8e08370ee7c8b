package websocket

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
)

// Hub tracks open clients and the room groups they belong to.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]*Client
}

func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		logger:  logger.With("component", "websocket_hub"),
		metrics: m,

		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
	}
}

// SendToGroup - queues an event for every member of group.
func (that *Hub) SendToGroup(group, action string, payload any) {
	that.SendToGroupExcept(group, "", action, payload)
}

// SendToGroupExcept - queues an event for every member of group but senderID.
func (that *Hub) SendToGroupExcept(group, senderID, action string, payload any) {
	log := that.logger.With("method", "SendToGroupExcept", "group", group, "action", action)

	f, err := encodeFrame(action, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for id, client := range that.groups[group] {
		if id == senderID {
			continue
		}

		if err = client.enqueue(f); err != nil {
			if errors.Is(err, ErrSendQueueFull) {
				log.Warn("slow consumer, message dropped", "connID", id)
				continue
			}
			log.Debug("failed to enqueue message", "connID", id, "error", err)
		}
	}
}

// GroupSize - returns the number of clients in group.
func (that *Hub) GroupSize(group string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.groups[group])
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// CloseAll - closes every open connection; their read loops then run the disconnect cleanup.
func (that *Hub) CloseAll() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.clients {
		_ = client.conn.Close()
	}
}

func (that *Hub) register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.id] = client
}

// unregister - forgets the client and drops it from every group.
func (that *Hub) unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, client.id)

	for group, members := range that.groups {
		delete(members, client.id)
		if len(members) == 0 {
			delete(that.groups, group)
		}
	}
}

func (that *Hub) join(group string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.groups[group]
	if !ok {
		members = make(map[string]*Client)
		that.groups[group] = members
	}

	members[client.id] = client
}

func (that *Hub) leave(group string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.groups[group]
	if !ok {
		return
	}

	delete(members, client.id)

	if len(members) == 0 {
		delete(that.groups, group)
	}
}
