package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/repository"
	"github.com/mreid/group-session-website/internal/service"
	"gorm.io/datatypes"
)

const webhookSignatureHeader = "X-Identity-Signature"

// WebhookHandler receives identity-provider events. Every delivery is
// stored; account deletions additionally discard the matching user row
// so the store cannot keep referencing a provider account that no longer
// exists.
type WebhookHandler struct {
	userService *service.UserService
	events      repository.IdentityEventRepository
	secret      string
}

func NewWebhookHandler(userService *service.UserService, events repository.IdentityEventRepository, secret string) *WebhookHandler {
	return &WebhookHandler{userService: userService, events: events, secret: secret}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if h.secret != "" && !verifySignature(body, r.Header.Get(webhookSignatureHeader), h.secret) {
		log.Printf("ERROR [handlers.Webhook] invalid signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}

	if err := h.events.Create(r.Context(), &domain.IdentityEvent{
		ID:         uuid.New(),
		EventType:  event.Type,
		Payload:    datatypes.JSON(body),
		ReceivedAt: time.Now(),
	}); err != nil {
		log.Printf("ERROR [handlers.Webhook] store event: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if event.Type == "user.deleted" && event.Data.ID != "" {
		if _, err := h.userService.Discard(r.Context(), event.Data.ID); err != nil {
			log.Printf("ERROR [handlers.Webhook] discard user %s: %v", event.Data.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func verifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
