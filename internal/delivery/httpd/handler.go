package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aptipro/dashboard-service/internal/service"
	"github.com/aptipro/dashboard-service/internal/service/integration"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Generic message for transport failures; the raw cause stays in the logs.
const msgNetworkError = "Network error. Please try again."

type Handler struct {
	sessionService service.SessionService
	cacheService   service.CacheService
	logger         zerolog.Logger
}

func NewHandler(
	sessionService service.SessionService,
	cacheService service.CacheService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		sessionService: sessionService,
		cacheService:   cacheService,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/verify", h.Verify)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		api.Route("/results", func(r chi.Router) {
			r.Get("/", h.GetResults)
			r.Post("/refresh", h.RefreshResults)
			r.Get("/subjects", h.GetResultSubjects)
			r.Get("/{id}", h.GetResultByID)
		})

		api.Route("/questions", func(r chi.Router) {
			r.Get("/", h.GetQuestions)
			r.Post("/", h.AddQuestion)
		})

		api.Route("/tests", func(r chi.Router) {
			r.Get("/", h.GetTests)
			r.Post("/", h.AddTest)
			r.Get("/{id}", h.GetTestByID)
		})

		api.Get("/subjects", h.GetSubjects)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "dashboard-service",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleServiceError maps store errors onto the uniform failure response:
// pass validation messages through verbatim, hide transport causes behind a
// generic retry message.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *integration.ValidationError
	var networkErr *integration.NetworkError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, integration.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Exam API is not configured")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, validationErr.Message)
	case errors.As(err, &networkErr):
		writeError(w, http.StatusBadGateway, msgNetworkError)
	default:
		writeError(w, http.StatusBadGateway, msgNetworkError)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
