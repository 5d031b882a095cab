// Package api is the REST client for the BookNclean backend. The backend is a
// collaborator: this module only consumes it, it implements none of it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sly2277/BookNclean/internal/domain"
	"golang.org/x/sync/singleflight"
)

const defaultBaseURL = "http://localhost:3000"

// ErrInvalidCoupon is returned for any coupon validation failure. The caller
// shows it as "invalid or expired" and clears the active coupon.
var ErrInvalidCoupon = errors.New("invalid or expired coupon")

// TokenSource supplies the bearer token for authenticated calls. An empty
// string means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Config carries client construction options. Zero values fall back to the
// local dev backend with a 10s request timeout.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	sfg     singleflight.Group // collapses concurrent price fetches per service key
}

func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    httpClient,
		tokens:  cfg.Tokens,
	}
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// GetPrices fetches the current price list for one service key. Concurrent
// calls for the same key share a single request.
func (c *Client) GetPrices(ctx context.Context, serviceKey string) ([]domain.ServicePriceItem, error) {
	v, err, _ := c.sfg.Do(serviceKey, func() (interface{}, error) {
		var list []domain.ServicePriceItem
		if err := c.do(ctx, http.MethodGet, "/prices/"+url.PathEscape(serviceKey), nil, &list); err != nil {
			return nil, err
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", serviceKey, err)
	}
	return v.([]domain.ServicePriceItem), nil
}

// ServiceSummary is one row of the all-services pricing overview.
type ServiceSummary struct {
	ServiceKey string `json:"serviceKey"`
	PriceLabel string `json:"priceLabel,omitempty"`
	Count      int    `json:"count"`
}

// AllPricing is the full catalog overview: per-service summaries plus the
// price items grouped by service key.
type AllPricing struct {
	Summaries []ServiceSummary                      `json:"summaries"`
	Grouped   map[string][]domain.ServicePriceItem `json:"grouped"`
}

func (c *Client) GetAllPricing(ctx context.Context) (*AllPricing, error) {
	var out AllPricing
	if err := c.do(ctx, http.MethodGet, "/pricing", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch pricing overview: %w", err)
	}
	return &out, nil
}

// ValidateCoupon checks a code against the current subtotal. Any failure,
// network or rejection alike, comes back wrapped in ErrInvalidCoupon.
func (c *Client) ValidateCoupon(ctx context.Context, code string, subtotal float64) (*domain.Coupon, error) {
	body := map[string]interface{}{"code": code, "subtotal": subtotal}
	var coupon domain.Coupon
	if err := c.do(ctx, http.MethodPost, "/coupons/validate", body, &coupon); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCoupon, err)
	}
	return &coupon, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &profile, nil
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, nil); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return out.AccessToken, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", map[string]string{"token": token}, nil); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

// SubmitQuestion posts a free-form question from the contact form.
func (c *Client) SubmitQuestion(ctx context.Context, text string) error {
	if err := c.do(ctx, http.MethodPost, "/questions", map[string]string{"text": text}, nil); err != nil {
		return fmt.Errorf("submit question: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
