// Package client is the Go client for the careview API. It owns the token
// lifecycle on the caller's side: sessions are persisted in a TokenStore,
// verified against the server on restore, and every network call goes
// through a bounded fixed-interval retry that never retries client errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// ErrNoSession is returned when an operation needs a stored session and
// none exists.
var ErrNoSession = errors.New("no stored session")

// ErrSessionExpired is returned by RestoreSession when the stored token is
// rejected by the server; the store has been cleared by then.
var ErrSessionExpired = errors.New("session expired")

// Client talks to the careview API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Store   TokenStore
	Retry   RetryPolicy
}

// New constructs a Client. A zero RetryPolicy falls back to
// DefaultRetryPolicy.
func New(baseURL string, store TokenStore, policy RetryPolicy) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Store:   store,
		Retry:   policy.normalized(),
	}
}

// Review mirrors the wire representation of a review.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewInput is a review submission.
type ReviewInput struct {
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// ReviewPage is one page of the public feed.
type ReviewPage struct {
	Reviews      []Review `json:"reviews"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	TotalReviews int64    `json:"totalReviews"`
}

// VerifiedUser is the identity echoed back by GET /api/verify.
type VerifiedUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type authResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Register creates an account, stores the returned session, and returns it.
func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	var res authResponse
	err := c.do(ctx, http.MethodPost, "/api/register",
		map[string]string{"name": name, "email": email, "password": password}, "", &res)
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: res.Token, UserID: res.UserID, Name: res.Name}
	if err := c.Store.Save(s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Login authenticates, stores the returned session, and returns it.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var res authResponse
	err := c.do(ctx, http.MethodPost, "/api/login",
		map[string]string{"email": email, "password": password}, "", &res)
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: res.Token, UserID: res.UserID, Name: res.Name}
	if err := c.Store.Save(s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Logout revokes the current token server-side and clears the stored
// session. The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	s, err := c.Store.Load()
	if err != nil || !s.Active() {
		return c.Store.Clear()
	}
	apiErr := c.do(ctx, http.MethodPost, "/api/logout", nil, s.Token, nil)
	if clearErr := c.Store.Clear(); clearErr != nil {
		return clearErr
	}
	return apiErr
}

// Verify checks the given token against the server.
func (c *Client) Verify(ctx context.Context, token string) (*VerifiedUser, error) {
	var res struct {
		Valid bool         `json:"valid"`
		User  VerifiedUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/verify", nil, token, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// RestoreSession loads the stored session and verifies it against the
// server, mirroring the protected-page-load check of the web client.
// A rejected token clears the store and returns ErrSessionExpired;
// transient failures propagate so the caller can decide.
func (c *Client) RestoreSession(ctx context.Context) (Session, error) {
	s, err := c.Store.Load()
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !s.Active() {
		return Session{}, ErrNoSession
	}
	if _, err := c.Verify(ctx, s.Token); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			_ = c.Store.Clear()
			return Session{}, ErrSessionExpired
		}
		return Session{}, err
	}
	return s, nil
}

// SubmitReview posts a review under the stored session.
func (c *Client) SubmitReview(ctx context.Context, in ReviewInput) (*Review, error) {
	s, err := c.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !s.Active() {
		return nil, ErrNoSession
	}
	var res struct {
		Message string `json:"message"`
		Review  Review `json:"review"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/reviews", in, s.Token, &res); err != nil {
		return nil, err
	}
	return &res.Review, nil
}

// ListReviews fetches a page of the public feed.
func (c *Client) ListReviews(ctx context.Context, page, limit int) (*ReviewPage, error) {
	path := fmt.Sprintf("/api/reviews?page=%d&limit=%d", page, limit)
	var res ReviewPage
	if err := c.do(ctx, http.MethodGet, path, nil, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do performs one API call with the client's retry policy. Transport errors
// and 5xx responses are retried with a fixed interval; 4xx responses return
// an *APIError immediately.
func (c *Client) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.Retry.wait(ctx); err != nil {
				return err
			}
		}
		err := c.doOnce(ctx, method, path, payload, token, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, token string, out any) error {
	var reader *bytes.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
