package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestTimeout_CutsOffSlowHandlers(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Timeout(20 * time.Millisecond))
	router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if got := rec.Body.String(); got != `{"success": false, "message": "Request timeout"}` {
		t.Errorf("unexpected timeout body: %s", got)
	}
}

func TestTimeout_PassesFastHandlers(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Timeout(time.Second))
	router.Get("/fast", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Body.String(); got != "ok" {
		t.Errorf("unexpected body: %s", got)
	}
}
