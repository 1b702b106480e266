package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aptipro/dashboard-service/internal/models"
	"github.com/rs/zerolog"
)

// ExamClient wraps the remote exam API described by the AptiPro backend
// contract: JSON request/response, credentials per call, no tokens.
type ExamClient interface {
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Verify(ctx context.Context, email string) (string, error)
	FetchResults(ctx context.Context, email string) ([]models.RawResult, error)
	AddQuestion(ctx context.Context, req models.AddQuestionRequest) (*models.Question, error)
	CreateTest(ctx context.Context, req models.CreateTestRequest) (string, error)
}

type examClient struct {
	baseURL    string
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewExamClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) ExamClient {
	return &examClient{
		baseURL:    baseURL,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *examClient) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	var resp models.MessageResponse
	if err := c.post(ctx, "/signup", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *examClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.post(ctx, "/login", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("email", resp.User.Email).
		Bool("verified", resp.User.Verified).
		Int("subjects", len(resp.User.Subjects)).
		Msg("Login accepted by exam API")

	return &resp, nil
}

func (c *examClient) Verify(ctx context.Context, email string) (string, error) {
	var resp models.MessageResponse
	if err := c.post(ctx, "/verify", models.VerifyRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// FetchResults is the one idempotent read in the contract, so it is also the
// one call that retries transport failures.
func (c *examClient) FetchResults(ctx context.Context, email string) ([]models.RawResult, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/results?email=%s", c.baseURL, url.QueryEscape(email))

	var lastErr error
	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Msg("Retrying results fetch")
			select {
			case <-ctx.Done():
				return nil, &NetworkError{Op: "fetch results", Err: ctx.Err()}
			case <-time.After(c.retryDelay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var payload models.ResultsResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				resp.Body.Close()
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			resp.Body.Close()

			c.logger.Debug().
				Str("email", email).
				Int("count", len(payload.Results)).
				Msg("Fetched results")

			return payload.Results, nil
		}

		message := decodeMessage(resp)
		resp.Body.Close()
		return nil, &ValidationError{StatusCode: resp.StatusCode, Message: message}
	}

	return nil, &NetworkError{Op: "fetch results", Err: lastErr}
}

func (c *examClient) AddQuestion(ctx context.Context, req models.AddQuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := c.post(ctx, "/questions", req, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (c *examClient) CreateTest(ctx context.Context, req models.CreateTestRequest) (string, error) {
	var resp models.MessageResponse
	if err := c.post(ctx, "/create_test", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// post issues one non-retried JSON POST. Non-2xx responses become a
// ValidationError carrying the server's message verbatim; transport
// failures become a NetworkError.
func (c *examClient) post(ctx context.Context, path string, body, out interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ValidationError{StatusCode: resp.StatusCode, Message: decodeMessage(resp)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func decodeMessage(resp *http.Response) string {
	var body models.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return fmt.Sprintf("exam api returned status %d", resp.StatusCode)
	}
	return body.Message
}
