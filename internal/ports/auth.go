package ports

import (
	"context"
	"time"

	"github.com/mediwound/wardview/internal/domain/session"
)

// LoginResult carries the backend response to a successful login.
type LoginResult struct {
	Tokens session.TokenPair
	User   session.User
}

// RefreshResult carries the backend response to a token refresh.
// Refresh is empty when the backend did not rotate the refresh token.
type RefreshResult struct {
	Access  string
	Refresh string
}

// ChangePasswordInput groups parameters for a password change request.
type ChangePasswordInput struct {
	AccessToken     string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AuthBackend is the backend's authentication endpoint surface.
// Implementations map transport and status codes to the application
// error taxonomy; they never touch local state.
type AuthBackend interface {
	// Login exchanges credentials for a token pair and identity.
	Login(ctx context.Context, email, password string) (LoginResult, error)

	// Logout asks the backend to invalidate the refresh token.
	// Callers treat failures as best-effort.
	Logout(ctx context.Context, accessToken, refreshToken string) error

	// Refresh exchanges the refresh token for a new access token and,
	// when the backend rotates, a new refresh token.
	Refresh(ctx context.Context, refreshToken string) (RefreshResult, error)

	// ChangePassword changes the authenticated user's password.
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
}

// Clock provides the current time; a seam for tests that exercise
// expiry-sensitive behavior.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using real system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
