package ws

import (
	"sync"

	"tutorlink_backend/internal/logger"
)

// Manager tracks one connection set per user. Delivery is best effort: the
// database is the source of truth for chat history, the socket only saves the
// client a poll.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect replaces the previous connection for the user.
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID, "total", total)
		}
	}
}

// SendToUser delivers the payload to the user's connection if one exists.
// Returns false when the user is offline or their send buffer is full. The
// read lock is held across the send so a concurrent re-registration cannot
// close the channel underneath it.
func (m *Manager) SendToUser(userID string, payload []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		// Slow consumer, drop the connection rather than block.
		go func() { m.unregister <- client }()
		return false
	}
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
