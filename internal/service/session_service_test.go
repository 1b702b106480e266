package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/aptipro/dashboard-service/internal/models"
	"github.com/aptipro/dashboard-service/internal/repository"
	"github.com/aptipro/dashboard-service/internal/service/integration"
	"github.com/rs/zerolog"
)

var serverUser = models.User{
	ID:              "u1",
	Name:            "Teach Er",
	Email:           "teacher@example.com",
	Department:      "Science",
	Verified:        true,
	Subjects:        []string{"Math", "Physics"},
	TestsCreated:    4,
	ResultsAnalyzed: 9,
}

func newExamClient(t *testing.T, handler http.Handler) integration.ExamClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return integration.NewExamClient(ts.URL, 2*time.Second, 0, 0, zerolog.Nop())
}

func loginHandler(user models.User) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.LoginResponse{Message: "Login successful", User: user})
	})
	mux.HandleFunc("/verify", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.MessageResponse{Message: "Account verified successfully"})
	})
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.MessageResponse{Message: "Check your inbox"})
	})
	return mux
}

func TestLogin_ReplacesUserAndPersists(t *testing.T) {
	client := newExamClient(t, loginHandler(serverUser))
	mirror := repository.NewMemoryMirror()
	session := NewSessionService(client, mirror, zerolog.Nop())

	message, err := session.Login(context.Background(), serverUser.Email, "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if message != "Login successful" {
		t.Errorf("unexpected message: %q", message)
	}

	current := session.CurrentUser()
	if current == nil {
		t.Fatal("expected a current user after login")
	}
	if !reflect.DeepEqual(*current, serverUser) {
		t.Errorf("current user differs from server profile:\ngot  %+v\nwant %+v", *current, serverUser)
	}

	data, ok := mirror.Get(repository.KeyUser)
	if !ok {
		t.Fatal("expected user to be persisted to the mirror")
	}
	var stored models.User
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored user is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(stored, serverUser) {
		t.Errorf("stored user differs from server profile:\ngot  %+v\nwant %+v", stored, serverUser)
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.MessageResponse{Message: "Invalid credentials"})
	})
	client := newExamClient(t, mux)
	session := NewSessionService(client, repository.NewMemoryMirror(), zerolog.Nop())

	_, err := session.Login(context.Background(), "x@y.z", "wrong")

	var validationErr *integration.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Message != "Invalid credentials" {
		t.Errorf("server message not passed through verbatim: %q", validationErr.Message)
	}
	if session.IsAuthenticated() {
		t.Error("failed login must not authenticate the session")
	}
}

func TestLogout_ClearsMemoryAndMirror(t *testing.T) {
	client := newExamClient(t, loginHandler(serverUser))
	mirror := repository.NewMemoryMirror()
	session := NewSessionService(client, mirror, zerolog.Nop())

	if _, err := session.Login(context.Background(), serverUser.Email, "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := session.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if session.CurrentUser() != nil {
		t.Error("expected no current user after logout")
	}
	if _, ok := mirror.Get(repository.KeyUser); ok {
		t.Error("expected mirror user key to be deleted")
	}

	// A fresh hydration over the same mirror yields no user.
	fresh := NewSessionService(client, mirror, zerolog.Nop())
	if fresh.IsAuthenticated() {
		t.Error("fresh session hydrated a user after logout")
	}
}

func TestVerifyAccount_NonMatchingEmailDoesNotFlip(t *testing.T) {
	unverified := serverUser
	unverified.Verified = false

	client := newExamClient(t, loginHandler(unverified))
	mirror := repository.NewMemoryMirror()
	session := NewSessionService(client, mirror, zerolog.Nop())

	if _, err := session.Login(context.Background(), unverified.Email, "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := session.VerifyAccount(context.Background(), "someone-else@example.com"); err != nil {
		t.Fatalf("VerifyAccount returned error: %v", err)
	}

	if session.CurrentUser().Verified {
		t.Error("verified flag flipped for a non-matching email")
	}
}

func TestVerifyAccount_MatchingEmailFlipsInPlace(t *testing.T) {
	unverified := serverUser
	unverified.Verified = false

	client := newExamClient(t, loginHandler(unverified))
	mirror := repository.NewMemoryMirror()
	session := NewSessionService(client, mirror, zerolog.Nop())

	if _, err := session.Login(context.Background(), unverified.Email, "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := session.VerifyAccount(context.Background(), unverified.Email); err != nil {
		t.Fatalf("VerifyAccount returned error: %v", err)
	}

	if !session.CurrentUser().Verified {
		t.Error("expected verified flag to flip for the current user")
	}

	data, _ := mirror.Get(repository.KeyUser)
	var stored models.User
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored user is not valid JSON: %v", err)
	}
	if !stored.Verified {
		t.Error("verified flag was not re-persisted")
	}
}

func TestSignup_DoesNotAuthenticate(t *testing.T) {
	client := newExamClient(t, loginHandler(serverUser))
	session := NewSessionService(client, repository.NewMemoryMirror(), zerolog.Nop())

	message, err := session.Signup(context.Background(), models.SignupRequest{
		Name:       "New User",
		Email:      "new@example.com",
		Password:   "secret",
		Department: "Arts",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if message != "Check your inbox" {
		t.Errorf("server message not passed through: %q", message)
	}
	if session.IsAuthenticated() {
		t.Error("signup must not authenticate the caller")
	}
}

func TestSessionHydration_CorruptRecordTreatedAsAbsent(t *testing.T) {
	mirror := repository.NewMemoryMirror()
	if err := mirror.Set(repository.KeyUser, []byte("{{{ not json")); err != nil {
		t.Fatal(err)
	}

	client := newExamClient(t, loginHandler(serverUser))
	session := NewSessionService(client, mirror, zerolog.Nop())

	if session.IsAuthenticated() {
		t.Error("corrupt stored user must hydrate as anonymous")
	}
	if session.CurrentUser() != nil {
		t.Error("expected nil current user")
	}
}

func TestSessionHydration_RestoresUser(t *testing.T) {
	mirror := repository.NewMemoryMirror()
	data, _ := json.Marshal(serverUser)
	if err := mirror.Set(repository.KeyUser, data); err != nil {
		t.Fatal(err)
	}

	client := newExamClient(t, loginHandler(serverUser))
	session := NewSessionService(client, mirror, zerolog.Nop())

	current := session.CurrentUser()
	if current == nil {
		t.Fatal("expected hydrated user")
	}
	if !reflect.DeepEqual(*current, serverUser) {
		t.Errorf("hydrated user differs:\ngot  %+v\nwant %+v", *current, serverUser)
	}
}

func TestSessionSubscribe(t *testing.T) {
	client := newExamClient(t, loginHandler(serverUser))
	session := NewSessionService(client, repository.NewMemoryMirror(), zerolog.Nop())

	notified := 0
	unsubscribe := session.Subscribe(func() { notified++ })

	if _, err := session.Login(context.Background(), serverUser.Email, "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if notified != 1 {
		t.Errorf("expected 1 notification after login, got %d", notified)
	}

	unsubscribe()
	if err := session.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if notified != 1 {
		t.Errorf("listener fired after unsubscribe, notified=%d", notified)
	}
}
