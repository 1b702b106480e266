package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/aptipro/dashboard-service/internal/models"
	"github.com/aptipro/dashboard-service/internal/repository"
	"github.com/aptipro/dashboard-service/internal/service/integration"
	"github.com/rs/zerolog"
)

const (
	msgQuestionAdded = "Question added successfully"
	msgTestCreated   = "Test created successfully"

	// FilterAll is the wildcard value for FilterResults dimensions.
	FilterAll = "all"
)

// CacheService owns the question, test and result collections and
// reconciles them with the remote exam API. The remote side stays the
// source of truth; the mirror only makes reloads cheap.
//
// Two gaps are carried over from the dashboard's observed behavior on
// purpose: AddQuestion appends in memory without persisting the collection,
// and AddTest does not update the local test collection at all.
type CacheService interface {
	FetchResults(ctx context.Context) error
	AddQuestion(ctx context.Context, req models.AddQuestionRequest) (string, error)
	AddTest(ctx context.Context, req models.CreateTestRequest) (string, error)
	GetSubjects() []string
	GetTestByID(id string) (models.Test, bool)
	GetResultByID(id string) (models.Result, bool)
	Questions() []models.Question
	Tests() []models.Test
	Results() []models.Result
	FilterResults(search, subject, difficulty string) []models.Result
	ResultSubjects() []string
	Subscribe(fn func()) func()
}

type cacheService struct {
	client             integration.ExamClient
	mirror             repository.Mirror
	session            SessionService
	surfaceFetchErrors bool
	logger             zerolog.Logger
	events             notifier

	mu        sync.RWMutex
	questions []models.Question
	tests     []models.Test
	results   []models.Result
}

func NewCacheService(
	client integration.ExamClient,
	mirror repository.Mirror,
	session SessionService,
	surfaceFetchErrors bool,
	logger zerolog.Logger,
) CacheService {
	s := &cacheService{
		client:             client,
		mirror:             mirror,
		session:            session,
		surfaceFetchErrors: surfaceFetchErrors,
		logger:             logger,
	}

	if data, ok := mirror.Get(repository.KeyQuestions); ok {
		if err := json.Unmarshal(data, &s.questions); err != nil {
			logger.Warn().Err(err).Str("key", repository.KeyQuestions).Msg("Stored questions are corrupt, starting empty")
			s.questions = nil
		}
	}
	if data, ok := mirror.Get(repository.KeyTests); ok {
		if err := json.Unmarshal(data, &s.tests); err != nil {
			logger.Warn().Err(err).Str("key", repository.KeyTests).Msg("Stored tests are corrupt, starting empty")
			s.tests = nil
		}
	}
	if data, ok := mirror.Get(repository.KeyResults); ok {
		if err := json.Unmarshal(data, &s.results); err != nil {
			logger.Warn().Err(err).Str("key", repository.KeyResults).Msg("Stored results are corrupt, starting empty")
			s.results = nil
		}
	}

	return s
}

// FetchResults replaces the whole result collection with the remote state.
// Concurrent calls are not de-duplicated; whichever response lands last
// wins. By default failures are logged and swallowed so a stale cache keeps
// serving; surfaceFetchErrors flips that.
func (s *cacheService) FetchResults(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		// Nothing to fetch yet; not an error.
		return nil
	}

	raw, err := s.client.FetchResults(ctx, user.Email)
	if err != nil {
		return s.fetchFailed(err)
	}

	results, err := models.TransformResults(raw)
	if err != nil {
		return s.fetchFailed(err)
	}

	s.mu.Lock()
	s.results = results
	s.persistResultsLocked()
	s.mu.Unlock()

	s.events.notify()

	s.logger.Info().Int("count", len(results)).Msg("Result cache refreshed")
	return nil
}

func (s *cacheService) fetchFailed(err error) error {
	s.logger.Error().Err(err).Msg("Failed to fetch results, keeping cached state")
	// A missing base URL is a configuration error, not a fetch failure; it
	// always surfaces.
	if s.surfaceFetchErrors || errors.Is(err, integration.ErrNotConfigured) {
		return err
	}
	return nil
}

func (s *cacheService) AddQuestion(ctx context.Context, req models.AddQuestionRequest) (string, error) {
	if !s.session.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	question, err := s.client.AddQuestion(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("subject", req.Subject).Msg("Failed to add question")
		return "", err
	}

	s.mu.Lock()
	s.questions = append(s.questions, *question)
	s.mu.Unlock()

	s.events.notify()

	s.logger.Info().
		Int("question_id", question.ID).
		Str("subject", question.Subject).
		Msg("Question added")

	return msgQuestionAdded, nil
}

func (s *cacheService) AddTest(ctx context.Context, req models.CreateTestRequest) (string, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return "", ErrNotAuthenticated
	}

	req.CreatedBy = user.Email
	req.DeptName = user.Department

	message, err := s.client.CreateTest(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("test_id", req.ID).Msg("Failed to create test")
		return "", err
	}
	if message == "" {
		message = msgTestCreated
	}

	s.logger.Info().Str("test_id", req.ID).Str("created_by", req.CreatedBy).Msg("Test created")
	return message, nil
}

// GetSubjects reads the current user's subject set in server order.
func (s *cacheService) GetSubjects() []string {
	user := s.session.CurrentUser()
	if user == nil || user.Subjects == nil {
		return []string{}
	}
	return user.Subjects
}

func (s *cacheService) GetTestByID(id string) (models.Test, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, test := range s.tests {
		if test.ID == id {
			return test, true
		}
	}
	return models.Test{}, false
}

func (s *cacheService) GetResultByID(id string) (models.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, result := range s.results {
		if strconv.Itoa(result.ID) == id {
			return result, true
		}
	}
	return models.Result{}, false
}

func (s *cacheService) Questions() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Question(nil), s.questions...)
}

func (s *cacheService) Tests() []models.Test {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Test(nil), s.tests...)
}

func (s *cacheService) Results() []models.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Result(nil), s.results...)
}

// FilterResults scans the cached results: case-insensitive substring match
// on student name or email, exact match on subject and difficulty with
// "all" as wildcard.
func (s *cacheService) FilterResults(search, subject, difficulty string) []models.Result {
	search = strings.ToLower(search)

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Result, 0, len(s.results))
	for _, result := range s.results {
		if search != "" &&
			!strings.Contains(strings.ToLower(result.StudentName), search) &&
			!strings.Contains(strings.ToLower(result.StudentEmail), search) {
			continue
		}
		if subject != "" && subject != FilterAll && result.Subject != subject {
			continue
		}
		if difficulty != "" && difficulty != FilterAll && result.Difficulty != difficulty {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// ResultSubjects returns the distinct subjects present in the cached
// results, in first-seen order.
func (s *cacheService) ResultSubjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	subjects := make([]string, 0)
	for _, result := range s.results {
		if !seen[result.Subject] {
			seen[result.Subject] = true
			subjects = append(subjects, result.Subject)
		}
	}
	return subjects
}

func (s *cacheService) Subscribe(fn func()) func() {
	return s.events.subscribe(fn)
}

func (s *cacheService) persistResultsLocked() {
	data, err := json.Marshal(s.results)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to serialize results")
		return
	}
	if err := s.mirror.Set(repository.KeyResults, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist results")
	}
}
