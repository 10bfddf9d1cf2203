package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mreid/group-session-website/internal/api/middleware"
	"github.com/mreid/group-session-website/internal/service"
)

// TempUserCookieName holds the joined user's row id; the group view
// reads it back. Overwritten unconditionally on every successful join.
const TempUserCookieName = "temp_user_id"

type JoinHandler struct {
	joinService *service.JoinService
}

func NewJoinHandler(joinService *service.JoinService) *JoinHandler {
	return &JoinHandler{joinService: joinService}
}

type joinErrorResponse struct {
	Error string `json:"error"`
	Retry bool   `json:"retry"`
}

// Join runs the whole provisioning sequence for one page activation and
// redirects into the session's group view. Errors land as a JSON body;
// the client retries by requesting the same URL again, which re-runs the
// sequence from scratch.
func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		http.Error(w, "Session id required", http.StatusBadRequest)
		return
	}

	result, err := h.joinService.Join(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.SessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     TempUserCookieName,
		Value:    result.User.ID.String(),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, result.RedirectURL, http.StatusSeeOther)
}

func (h *JoinHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Failed to join session"

	switch {
	case errors.Is(err, service.ErrAuthUnavailable):
		status = http.StatusServiceUnavailable
		message = "Authentication service not available"
	case errors.Is(err, service.ErrSessionExpired):
		status = http.StatusNotFound
		message = "Session not found or has expired"
	case errors.Is(err, service.ErrSessionEnded):
		status = http.StatusGone
		message = "This session has ended"
	case errors.Is(err, service.ErrSignInIncomplete):
		status = http.StatusUnauthorized
		message = "Failed to complete sign in process"
	default:
		log.Printf("ERROR [handlers.Join] %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(joinErrorResponse{Error: message, Retry: true})
}
