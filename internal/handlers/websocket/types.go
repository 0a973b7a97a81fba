package websocket

import (
	"time"

	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeStage  MessageType = "stage"
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
)

// WSMessage is every server to client frame
type WSMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`

	// stage
	Stage transcription.Stage `json:"stage,omitempty"`

	// result
	RequestID      string                          `json:"requestId,omitempty"`
	Result         *transcript.TranscriptionResult `json:"result,omitempty"`
	ChargedMinutes int                             `json:"chargedMinutes,omitempty"`
	BalanceMinutes int                             `json:"balanceMinutes,omitempty"`

	// error
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Stats is reported by the stats endpoint
type Stats struct {
	ActiveConnections int       `json:"activeConnections"`
	TotalConnections  int64     `json:"totalConnections"`
	StartedAt         time.Time `json:"startedAt"`
}
