package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
	"github.com/xpanvictor/audioscribe/internal/handlers"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

const (
	// a whole base64 audio file arrives in one frame
	maxRequestBytes = 50 << 20
	readWait        = 60 * time.Second
)

// WebSocketHandler streams stage progress for one transcription request
// per connection.
type WebSocketHandler struct {
	logger            *Logger.Logger
	service           transcription.Service
	verifier          auth.Verifier
	ledger            credit.Ledger
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
	maxRequestBytes   int64
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	logger *Logger.Logger,
	service transcription.Service,
	verifier auth.Verifier,
	ledger credit.Ledger,
	allowedOrigins []string,
	bodyLimitMB int,
) *WebSocketHandler {
	allowed := map[string]bool{"http://localhost:3000": true}
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	limit := int64(maxRequestBytes)
	if bodyLimitMB > 0 {
		limit = int64(bodyLimitMB) << 20
	}
	return &WebSocketHandler{
		logger:            logger,
		service:           service,
		verifier:          verifier,
		ledger:            ledger,
		connectionManager: NewConnectionManager(logger),
		maxRequestBytes:   limit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter, middleware ...gin.HandlerFunc) {
	ws := router.Group("/ws")
	{
		ws.GET("/transcribe", append(middleware, h.HandleTranscribe)...)
		ws.GET("/stats", h.HandleStats)
	}
}

func (h *WebSocketHandler) authenticate(c *gin.Context) (*auth.Identity, error) {
	token := c.Query("token")
	if header := c.GetHeader("Authorization"); header != "" {
		t, err := auth.BearerToken(header)
		if err != nil {
			return nil, err
		}
		token = t
	}
	if token == "" {
		return nil, auth.ErrUnauthorized
	}

	id, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.Provision(c.Request.Context(), id.UserID, id.Email); err != nil {
		return nil, err
	}
	return id, nil
}

// HandleTranscribe authenticates, upgrades, reads one transcription.Request
// and reports every stage before the result or error frame.
func (h *WebSocketHandler) HandleTranscribe(c *gin.Context) {
	id, err := h.authenticate(c)
	if err != nil {
		h.logger.Debugf("WebSocket authentication failed: %v", err)
		c.JSON(handlers.StatusFor(err), handlers.ErrorBody(err))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(h.maxRequestBytes)

	session := NewSession(id.UserID, conn)
	h.connectionManager.RegisterConnection(session)
	defer h.connectionManager.UnregisterConnection(session.SessionID)

	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	var req transcription.Request
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Debugf("ws read error for user %s: %v", id.UserID, err)
		h.sendError(session, http.StatusBadRequest, "Invalid request data")
		return
	}

	requestID := c.Query("requestId")
	if requestID == "" {
		requestID = c.GetString(handlers.ContextRequestID)
	}

	// the client going away does not cancel a request that may already be billed
	ctx := context.WithoutCancel(c.Request.Context())
	outcome, err := h.service.Transcribe(ctx, transcription.Submission{
		AccountID: id.UserID,
		SessionID: c.Query("sessionId"),
		RequestID: requestID,
		Request:   req,
	}, func(stage transcription.Stage) {
		if err := session.Send(WSMessage{Type: MessageTypeStage, Stage: stage}); err != nil {
			h.logger.Debugf("ws stage write failed for %s: %v", session.SessionID, err)
		}
	})
	if err != nil {
		status := handlers.StatusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Errorf("ws transcription error: %v", err)
		}
		h.sendError(session, status, handlers.ErrorBody(err).Error)
		return
	}

	if err := session.Send(WSMessage{
		Type:           MessageTypeResult,
		RequestID:      outcome.RequestID,
		Result:         outcome.Result,
		ChargedMinutes: outcome.ChargedMinutes,
		BalanceMinutes: outcome.BalanceMinutes,
	}); err != nil {
		h.logger.Warnf("ws result write failed for %s: %v", session.SessionID, err)
	}
}

func (h *WebSocketHandler) sendError(session *Session, status int, message string) {
	if err := session.Send(WSMessage{Type: MessageTypeError, Status: status, Error: message}); err != nil {
		h.logger.Debugf("ws error write failed for %s: %v", session.SessionID, err)
	}
}

// HandleStats provides connection statistics
func (h *WebSocketHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   h.connectionManager.GetStats(),
	})
}
