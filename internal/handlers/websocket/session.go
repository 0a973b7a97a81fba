package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Session is one progress connection.
type Session struct {
	UserID    string
	SessionID string
	Conn      *websocket.Conn

	ConnectedAt time.Time
	IsActive    bool
	mutex       sync.Mutex
}

// NewSession creates a new WebSocket session
func NewSession(userID string, conn *websocket.Conn) *Session {
	return &Session{
		UserID:      userID,
		SessionID:   uuid.NewString(),
		Conn:        conn,
		ConnectedAt: time.Now(),
		IsActive:    true,
	}
}

// Send writes one frame to the client
func (s *Session) Send(msg WSMessage) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return fmt.Errorf("session not active")
	}

	msg.SessionID = s.SessionID
	msg.Timestamp = time.Now()
	if err := s.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.Conn.WriteJSON(msg)
}

// Close sends a normal closure and closes the connection
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	_ = s.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return s.Conn.Close()
}
