package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mreid/group-session-website/internal/api/middleware"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/service"
)

type UsersHandler struct {
	userService *service.UserService
}

func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

type participantsResponse struct {
	SessionID    string         `json:"sessionId"`
	Participants []*domain.User `json:"participants"`
}

func (h *UsersHandler) Participants(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	users, err := h.userService.Participants(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, participantsResponse{SessionID: sessionID, Participants: users})
}

func (h *UsersHandler) Active(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ActiveUsers(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, users)
}

type activityRequest struct {
	IsActive bool `json:"isActive"`
}

// UpdateActivity flips the caller's own activity flag; the clerk id
// comes from the verified session token, never from the request body.
func (h *UsersHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	clerkID, ok := middleware.GetClerkID(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.MarkActivity(r.Context(), clerkID, req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
