package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aptipro/dashboard-service/internal/models"
	"github.com/aptipro/dashboard-service/internal/repository"
	"github.com/aptipro/dashboard-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgSignupFallback = "Account created successfully. Please verify your email."
	msgLoginFallback  = "Login successful"
	msgVerifyFallback = "Account verified successfully"
)

// SessionService is the single source of truth for who is logged in.
// Signup never authenticates the caller; Login replaces the current user
// wholesale; Logout is purely local. Verification status is carried as
// data, not enforced as a gate.
type SessionService interface {
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyAccount(ctx context.Context, email string) (string, error)
	Logout() error
	CurrentUser() *models.User
	IsAuthenticated() bool
	Subscribe(fn func()) func()
}

type sessionService struct {
	client integration.ExamClient
	mirror repository.Mirror
	logger zerolog.Logger
	events notifier

	mu        sync.RWMutex
	user      *models.User
	sessionID string
}

// NewSessionService hydrates the current user from the mirror before any
// caller can observe the session, so a restart does not force a re-login.
func NewSessionService(client integration.ExamClient, mirror repository.Mirror, logger zerolog.Logger) SessionService {
	s := &sessionService{
		client: client,
		mirror: mirror,
		logger: logger,
	}

	if data, ok := mirror.Get(repository.KeyUser); ok {
		var user models.User
		if err := json.Unmarshal(data, &user); err != nil {
			logger.Warn().Err(err).Msg("Stored user record is corrupt, starting anonymous")
		} else {
			s.user = &user
			s.sessionID = uuid.New().String()
			logger.Info().Str("email", user.Email).Msg("Session hydrated from mirror")
		}
	}

	return s
}

func (s *sessionService) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	message, err := s.client.Signup(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Signup failed")
		return "", err
	}
	if message == "" {
		message = msgSignupFallback
	}

	// The account starts unverified; the caller still has to log in, so
	// session state does not change here.
	s.logger.Info().Str("email", req.Email).Msg("Account created")
	return message, nil
}

func (s *sessionService) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Login failed")
		return "", err
	}

	user := resp.User

	s.mu.Lock()
	s.user = &user
	s.sessionID = uuid.New().String()
	s.persistLocked()
	sessionID := s.sessionID
	s.mu.Unlock()

	s.events.notify()

	s.logger.Info().
		Str("email", user.Email).
		Str("session_id", sessionID).
		Msg("User logged in")

	if resp.Message == "" {
		return msgLoginFallback, nil
	}
	return resp.Message, nil
}

func (s *sessionService) VerifyAccount(ctx context.Context, email string) (string, error) {
	message, err := s.client.Verify(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Verification failed")
		return "", err
	}
	if message == "" {
		message = msgVerifyFallback
	}

	// Only flip the flag when the verified email is the current user's; a
	// successful verify for someone else leaves this session untouched.
	s.mu.Lock()
	changed := false
	if s.user != nil && s.user.Email == email {
		s.user.Verified = true
		s.persistLocked()
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.events.notify()
	}

	return message, nil
}

func (s *sessionService) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.sessionID = ""
	err := s.mirror.Delete(repository.KeyUser)
	s.mu.Unlock()

	s.events.notify()

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear stored user")
		return err
	}

	s.logger.Info().Msg("User logged out")
	return nil
}

// CurrentUser returns a copy of the current user, or nil for an anonymous
// session.
func (s *sessionService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	user.Subjects = append([]string(nil), s.user.Subjects...)
	return &user
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *sessionService) Subscribe(fn func()) func() {
	return s.events.subscribe(fn)
}

// persistLocked writes the current user through to the mirror. Callers hold
// s.mu. A failed write keeps the in-memory session usable.
func (s *sessionService) persistLocked() {
	data, err := json.Marshal(s.user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to serialize user")
		return
	}
	if err := s.mirror.Set(repository.KeyUser, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist user")
	}
}
