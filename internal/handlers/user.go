package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jjudge-oj/usersvc/internal/services"
	"github.com/sirupsen/logrus"
)

// UserHandler provides HTTP handlers for user accounts.
type UserHandler struct {
	userService *services.UserService
	log         logrus.FieldLogger
}

func NewUserHandler(userService *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, log logrus.FieldLogger) {
	handler := NewUserHandler(userService, log)

	r.Post("/", handler.CreateUser)
	r.Get("/{userID}", handler.GetUser)
}

// CreateUser signs a user up and returns the record without its hash.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	user, err := h.userService.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetUser returns the stored user record.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
