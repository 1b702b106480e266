package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/aptipro/dashboard-service/internal/models"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if req.Department == "" {
		writeError(w, http.StatusBadRequest, "department is required")
		return
	}

	message, err := h.sessionService.Signup(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeMessage(w, message)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	message, err := h.sessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
		"user":    h.sessionService.CurrentUser(),
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	message, err := h.sessionService.VerifyAccount(r.Context(), req.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeMessage(w, message)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Logout(); err != nil {
		h.logger.Error().Err(err).Msg("Logout cleanup failed")
	}

	writeMessage(w, "Logged out")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.sessionService.CurrentUser()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	writeSuccess(w, user)
}
