package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/service"
)

// PresenceHandler keeps a user's activity flag in sync with an open
// websocket: active while connected, inactive once the socket closes.
// The token travels as a query parameter because browsers cannot set
// headers on websocket dials.
type PresenceHandler struct {
	userService *service.UserService
	identity    identity.Provider
	upgrader    websocket.Upgrader
}

func NewPresenceHandler(userService *service.UserService, provider identity.Provider) *PresenceHandler {
	return &PresenceHandler{
		userService: userService,
		identity:    provider,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *PresenceHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	claims, err := h.identity.VerifyToken(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [handlers.Presence] upgrade: %v", err)
		return
	}
	defer conn.Close()

	if _, err := h.userService.MarkActivity(r.Context(), claims.AccountID, true); err != nil {
		log.Printf("ERROR [handlers.Presence] mark active %s: %v", claims.AccountID, err)
		return
	}

	// Block until the client goes away. Inbound messages are drained and
	// ignored; presence is the only concern here.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// The request context is dead once the connection drops.
	if _, err := h.userService.MarkActivity(context.Background(), claims.AccountID, false); err != nil {
		log.Printf("ERROR [handlers.Presence] mark inactive %s: %v", claims.AccountID, err)
	}
}
