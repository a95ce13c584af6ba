package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts pings a little before the peer would be considered gone
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks the chat sockets attached to intake sessions. A session
// has at most one socket at a time, since turns on a session are serial.
type Manager struct {
	mu        sync.Mutex
	bySession map[string]*websocket.Conn
	timeouts  TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		bySession: make(map[string]*websocket.Conn),
		timeouts:  timeouts,
	}
}

// Claim attaches conn to sessionID. It returns false if another socket
// already holds the session.
func (m *Manager) Claim(sessionID string, conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bySession[sessionID]; ok && existing != conn {
		return false
	}
	m.bySession[sessionID] = conn
	return true
}

// Release detaches conn from sessionID if it still holds it
func (m *Manager) Release(sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bySession[sessionID] == conn {
		delete(m.bySession, sessionID)
	}
}

// Count returns the number of attached sockets
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySession)
}

// Holds reports whether conn is the socket attached to sessionID
func (m *Manager) Holds(sessionID string, conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bySession[sessionID] == conn
}

func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}

// Keepalive arms the read deadline and pings conn until done is closed.
// Call ExtendDeadline before each blocking read.
func (m *Manager) Keepalive(conn *websocket.Conn, done <-chan struct{}) {
	m.ExtendDeadline(conn)
	conn.SetPongHandler(func(string) error {
		m.ExtendDeadline(conn)
		return nil
	})

	go func() {
		ticker := time.NewTicker(m.timeouts.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(m.timeouts.WriteWait)); err != nil {
					return
				}
			}
		}
	}()
}

// ExtendDeadline gives the peer another PongWait to send something
func (m *Manager) ExtendDeadline(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(m.timeouts.PongWait))
}

// CloseAll tells every attached socket the server is going away
func (m *Manager) CloseAll() {
	m.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(m.bySession))
	for id, conn := range m.bySession {
		conns = append(conns, conn)
		delete(m.bySession, id)
	}
	m.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(m.timeouts.WriteWait))
		conn.Close()
	}
}
