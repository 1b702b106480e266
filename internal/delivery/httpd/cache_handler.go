package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/aptipro/dashboard-service/internal/models"
	"github.com/go-chi/chi/v5"
)

// GetResults serves the cached result collection, filtered by the same
// dimensions the dashboard's results page offers: free-text student
// search, subject and difficulty (with "all" as wildcard).
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	results := h.cacheService.FilterResults(
		query.Get("search"),
		query.Get("subject"),
		query.Get("difficulty"),
	)

	writeSuccess(w, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// RefreshResults triggers a remote fetch. The cache swallows fetch
// failures unless configured otherwise, so this usually answers 200 even
// when the upstream is down and the cache is stale.
func (h *Handler) RefreshResults(w http.ResponseWriter, r *http.Request) {
	if err := h.cacheService.FetchResults(r.Context()); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"results": h.cacheService.Results(),
	})
}

func (h *Handler) GetResultByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Result ID is required")
		return
	}

	result, ok := h.cacheService.GetResultByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Result not found")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"result":        result,
		"correct_count": result.CorrectCount(),
		"percentage":    result.Percentage(),
	})
}

func (h *Handler) GetResultSubjects(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.cacheService.ResultSubjects())
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.cacheService.Questions())
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.OptionA == "" || req.OptionB == "" || req.OptionC == "" || req.OptionD == "" {
		writeError(w, http.StatusBadRequest, "all four options are required")
		return
	}
	if !validOption(req.CorrectOption) {
		writeError(w, http.StatusBadRequest, "correct_option must be one of A, B, C, D")
		return
	}
	if !validDifficulty(req.Difficulty) {
		writeError(w, http.StatusBadRequest, "difficulty must be one of Easy, Medium, Hard")
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}

	message, err := h.cacheService.AddQuestion(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeMessage(w, message)
}

func (h *Handler) GetTests(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.cacheService.Tests())
}

func (h *Handler) GetTestByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Test ID is required")
		return
	}

	test, ok := h.cacheService.GetTestByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Test not found")
		return
	}

	writeSuccess(w, test)
}

func (h *Handler) AddTest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Marks <= 0 || req.TotalQuestions <= 0 || req.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "marks, totalQuestions and duration must be positive")
		return
	}
	if !validDifficulty(req.Difficulty) {
		writeError(w, http.StatusBadRequest, "difficulty must be one of Easy, Medium, Hard")
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	if req.ScheduleDate == "" {
		writeError(w, http.StatusBadRequest, "scheduleDate is required")
		return
	}

	message, err := h.cacheService.AddTest(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeMessage(w, message)
}

func (h *Handler) GetSubjects(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.cacheService.GetSubjects())
}

func validOption(option string) bool {
	switch option {
	case models.OptionA, models.OptionB, models.OptionC, models.OptionD:
		return true
	}
	return false
}

func validDifficulty(difficulty string) bool {
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}
