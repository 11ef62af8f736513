package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitConnected(t *testing.T, m *Manager, userID string) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if m.IsConnected(userID) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("user %s never registered", userID)
}

func TestSendToUser_OfflineUser(t *testing.T) {
	m := NewManager()

	assert.False(t, m.SendToUser("nobody", []byte("ping")))
	assert.False(t, m.IsConnected("nobody"))
	assert.Equal(t, 0, m.ClientCount())
}

func TestSendToUser_FullBufferDropsNotBlocks(t *testing.T) {
	m := NewManager()
	go m.Run()

	client := &Client{UserID: "user-1", Send: make(chan []byte, 1), manager: m}
	m.register <- client
	waitConnected(t, m, "user-1")

	assert.True(t, m.SendToUser("user-1", []byte("one")))
	assert.False(t, m.SendToUser("user-1", []byte("two")))
}

// A send racing a re-registration must never land on the channel the register
// path just closed.
func TestSendToUser_SurvivesReconnectChurn(t *testing.T) {
	m := NewManager()
	go m.Run()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			m.register <- &Client{UserID: "user-1", Send: make(chan []byte, 1), manager: m}
		}
	}()

	for sending := true; sending; {
		select {
		case <-done:
			sending = false
		default:
			m.SendToUser("user-1", []byte("ping"))
		}
	}

	assert.LessOrEqual(t, m.ClientCount(), 1)
}
