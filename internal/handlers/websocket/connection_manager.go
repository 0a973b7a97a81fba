package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

// ConnectionManager tracks open progress connections
type ConnectionManager struct {
	logger    *Logger.Logger
	sessions  map[string]*Session
	mutex     sync.RWMutex
	total     atomic.Int64
	startedAt time.Time
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *Logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		logger:    logger,
		sessions:  make(map[string]*Session),
		startedAt: time.Now(),
	}
}

// RegisterConnection registers a new session
func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[session.SessionID] = session
	cm.total.Add(1)
	cm.logger.Debugf("Registered session for user %s (session: %s)", session.UserID, session.SessionID)
}

// UnregisterConnection closes and removes a session
func (cm *ConnectionManager) UnregisterConnection(sessionID string) {
	cm.mutex.Lock()
	session, exists := cm.sessions[sessionID]
	delete(cm.sessions, sessionID)
	cm.mutex.Unlock()

	if !exists {
		return
	}
	if err := session.Close(); err != nil {
		cm.logger.Debugf("Error closing session %s: %v", sessionID, err)
	}
	cm.logger.Debugf("Unregistered session for user %s (session: %s, open %v)",
		session.UserID, sessionID, time.Since(session.ConnectedAt))
}

// GetSessionCount returns the number of active sessions
func (cm *ConnectionManager) GetSessionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.sessions)
}

func (cm *ConnectionManager) GetStats() Stats {
	return Stats{
		ActiveConnections: cm.GetSessionCount(),
		TotalConnections:  cm.total.Load(),
		StartedAt:         cm.startedAt,
	}
}
