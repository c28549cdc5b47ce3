package chat

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// WebSocketHandler owns the connection lifecycle for /ws/chat sessions:
// accept, registry bookkeeping, the sequential receive/dispatch/send loop,
// and teardown.
type WebSocketHandler struct {
	sm            *SessionManager
	router        *Router
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(sm *SessionManager, router *Router, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		sm:            sm,
		router:        router,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for the WebSocket upgrade. Each
// connection gets its own session ID and its own sequential loop; sessions
// only share the registry.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}

	sessionID := uuid.NewString()
	slog.Info("Chat connection accepted", "session_id", sessionID, "ip", r.RemoteAddr)

	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	h.sm.Register(sessionID, ws)
	defer h.sm.Unregister(sessionID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.receiveLoop(ctx, ws, sessionID)
	slog.Info("Chat session ended", "session_id", sessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// receiveLoop reads frames strictly in arrival order and dispatches each to
// the router. A bad message never ends the loop; only disconnect or an
// unrecoverable I/O error does. A failed write is terminal for the session.
func (h *WebSocketHandler) receiveLoop(ctx context.Context, ws *websocket.Conn, sessionID string) {
	for {
		_, frame, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_id", sessionID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}

		resp := h.router.Handle(ctx, sessionID, frame)
		if ctx.Err() != nil {
			return
		}
		if resp == nil {
			continue
		}

		if err := ws.Write(ctx, websocket.MessageText, resp); err != nil {
			slog.Warn("WebSocket write error", "error", err, "session_id", sessionID)
			return
		}
	}
}
