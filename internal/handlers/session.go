package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jjudge-oj/usersvc/internal/services"
	"github.com/sirupsen/logrus"
)

// SessionHandler provides login, login check and logout.
type SessionHandler struct {
	sessionService *services.SessionService
	log            logrus.FieldLogger
}

func NewSessionHandler(sessionService *services.SessionService, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log}
}

// SessionRouter registers session routes on the given router.
func SessionRouter(r chi.Router, sessionService *services.SessionService, log logrus.FieldLogger) {
	handler := NewSessionHandler(sessionService, log)

	r.Post("/", handler.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", handler.GetSession)
		r.Delete("/", handler.DeleteSession)
	})
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	session, err := h.sessionService.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetByID(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// DeleteSession logs the session out. The response body is empty.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
