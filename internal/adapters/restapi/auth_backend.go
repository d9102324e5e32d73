package restapi

// Package restapi implements the AuthBackend port against the hospital
// backend's REST auth endpoints. It maps transport failures and status
// codes into the application error taxonomy and never touches local state.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mediwound/wardview/internal/domain/session"
	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/ports"
)

// Config holds configuration for the auth backend adapter.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// Backend implements ports.AuthBackend.
type Backend struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates an auth backend adapter.
func New(cfg Config) (*Backend, error) {
	if cfg.BaseURL == "" {
		return nil, apperrors.Validation("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Backend{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    session.User `json:"user"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (e errorResponse) message(fallback string) string {
	if e.Error != "" {
		return e.Error
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// Login exchanges credentials for a token pair and identity.
func (b *Backend) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	var out loginResponse
	resp, err := b.post(ctx, "/auth/login/", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return ports.LoginResult{}, err
	}

	if resp.status != http.StatusOK {
		if resp.status >= 400 && resp.status < 500 {
			return ports.LoginResult{}, apperrors.InvalidCredentials(resp.errBody.message("login failed"))
		}
		return ports.LoginResult{}, apperrors.Internalf("login: backend returned %d", resp.status)
	}

	if out.Access == "" || out.Refresh == "" {
		return ports.LoginResult{}, apperrors.Internalf("login: backend response missing tokens")
	}
	if _, ok := session.ParseRole(string(out.User.Role)); !ok {
		return ports.LoginResult{}, apperrors.Internalf("login: backend returned unknown role %q", out.User.Role)
	}

	return ports.LoginResult{
		Tokens: session.TokenPair{Access: out.Access, Refresh: out.Refresh},
		User:   out.User,
	}, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout asks the backend to invalidate the refresh token.
func (b *Backend) Logout(ctx context.Context, accessToken, refreshToken string) error {
	resp, err := b.post(ctx, "/auth/logout/", accessToken, logoutRequest{RefreshToken: refreshToken}, nil)
	if err != nil {
		return err
	}
	if resp.status >= 300 {
		return apperrors.Internalf("logout: backend returned %d", resp.status)
	}
	return nil
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Refresh exchanges the refresh token for new credentials.
// A rejected refresh token comes back as a SessionExpired error.
func (b *Backend) Refresh(ctx context.Context, refreshToken string) (ports.RefreshResult, error) {
	var out refreshResponse
	resp, err := b.post(ctx, "/auth/token/refresh/", "", refreshRequest{Refresh: refreshToken}, &out)
	if err != nil {
		return ports.RefreshResult{}, err
	}

	if resp.status != http.StatusOK {
		if resp.status >= 400 && resp.status < 500 {
			return ports.RefreshResult{}, apperrors.SessionExpired(resp.errBody.message("refresh token rejected"))
		}
		return ports.RefreshResult{}, apperrors.Internalf("refresh: backend returned %d", resp.status)
	}
	if out.Access == "" {
		return ports.RefreshResult{}, apperrors.Internalf("refresh: backend response missing access token")
	}

	return ports.RefreshResult{Access: out.Access, Refresh: out.Refresh}, nil
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword changes the authenticated user's password.
func (b *Backend) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	body := changePasswordRequest{
		OldPassword:     in.OldPassword,
		NewPassword:     in.NewPassword,
		ConfirmPassword: in.ConfirmPassword,
	}
	resp, err := b.post(ctx, "/auth/change-password/", in.AccessToken, body, nil)
	if err != nil {
		return err
	}

	switch {
	case resp.status < 300:
		return nil
	case resp.status == http.StatusUnauthorized:
		return apperrors.NoSession("password change rejected: not authenticated")
	case resp.status == http.StatusForbidden:
		return apperrors.Forbidden(resp.errBody.message("password change forbidden"))
	case resp.status < 500:
		return apperrors.Validation(resp.errBody.message("password change failed"))
	default:
		return apperrors.Internalf("change password: backend returned %d", resp.status)
	}
}

// postResult carries the decoded response of a post call.
type postResult struct {
	status  int
	errBody errorResponse
}

// post issues a JSON POST. On 2xx the body is decoded into out (when
// non-nil); otherwise the error body is captured for message extraction.
func (b *Backend) post(ctx context.Context, path, bearer string, in, out any) (postResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return postResult{}, apperrors.Internal("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return postResult{}, apperrors.Internal("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return postResult{}, apperrors.Network(fmt.Sprintf("POST %s", path), err)
	}
	defer resp.Body.Close()

	result := postResult{status: resp.StatusCode}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return postResult{}, apperrors.Internal("decode response", err)
			}
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		return result, nil
	}

	// Best effort: error bodies are JSON when the backend produced them,
	// but proxies can return anything.
	_ = json.NewDecoder(resp.Body).Decode(&result.errBody)
	return result, nil
}
