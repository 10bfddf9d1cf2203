package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/repository"
	"github.com/mreid/group-session-website/internal/service"
)

// PagesHandler serves the small public surface the auth allow-list
// points at, plus the group view the join flow redirects into. Rendering
// is out of scope; these return JSON payloads a frontend consumes.
type PagesHandler struct {
	sessions    repository.SessionRepository
	userService *service.UserService
}

func NewPagesHandler(sessions repository.SessionRepository, userService *service.UserService) *PagesHandler {
	return &PagesHandler{sessions: sessions, userService: userService}
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"page": "home"})
}

func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"page": "about"})
}

func (h *PagesHandler) Researchers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"page": "researchers"})
}

type groupResponse struct {
	Session      *domain.Session `json:"session"`
	Participants []*domain.User  `json:"participants"`
}

func (h *PagesHandler) Group(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	participants, err := h.userService.Participants(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, groupResponse{Session: session, Participants: participants})
}
