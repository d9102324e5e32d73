package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mediwound/wardview/internal/domain/session"
	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend ports.AuthBackend
	Vault   *Vault
	Logger  *slog.Logger
}

// AuthService is the sole authority for the credential lifecycle. All
// other components read session state through it or through the vault;
// nothing else writes auth keys.
type AuthService struct {
	backend ports.AuthBackend
	vault   *Vault
	logger  *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		backend: opts.Backend,
		vault:   opts.Vault,
		logger:  logger,
	}
}

// Vault exposes the state vault for components that persist UI state
// (active view, disclaimer flag). Auth keys stay owned by this service.
func (s *AuthService) Vault() *Vault { return s.vault }

// LoginInput groups parameters for Login.
type LoginInput struct {
	Email    string
	Password string
	// Persist selects the persistent scope ("remember me"); otherwise the
	// session survives only for the process lifetime.
	Persist bool
}

// Login authenticates against the backend and, on success, atomically
// installs the session in the selected scope while purging the other.
// On failure no local state is mutated.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (session.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return session.User{}, apperrors.ValidationField("email", "email is required")
	}
	if in.Password == "" {
		return session.User{}, apperrors.ValidationField("password", "password is required")
	}

	res, err := s.backend.Login(ctx, email, in.Password)
	if err != nil {
		return session.User{}, err
	}

	scope := session.ScopeSession
	if in.Persist {
		scope = session.ScopePersistent
	}
	if err := s.vault.WriteSession(ctx, scope, res.Tokens, res.User); err != nil {
		return session.User{}, err
	}

	// Remembered email lives only in the persistent scope, independent of
	// where the session itself went.
	persistent := s.vault.Store(session.ScopePersistent)
	if in.Persist {
		if err := persistent.Set(ctx, ports.KeyRememberedEmail, email); err != nil {
			return session.User{}, err
		}
	} else if err := persistent.Delete(ctx, ports.KeyRememberedEmail); err != nil {
		return session.User{}, err
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("role", string(res.User.Role)),
		slog.Bool("persist", in.Persist),
	)
	return res.User, nil
}

// Logout invalidates the refresh token server-side on a best-effort basis,
// then unconditionally clears auth state from both scopes. Logging out is
// always locally effective.
func (s *AuthService) Logout(ctx context.Context) error {
	access, _, _, _ := s.vault.Read(ctx, ports.KeyAccessToken)
	refresh, _, hasRefresh, _ := s.vault.Read(ctx, ports.KeyRefreshToken)

	if hasRefresh {
		if err := s.backend.Logout(ctx, access, refresh); err != nil {
			s.logger.DebugContext(ctx, "backend logout failed, clearing locally anyway",
				slog.String("error", err.Error()))
		}
	}

	return s.vault.ClearSession(ctx)
}

// Refresh exchanges the refresh token for a new access token, writing the
// result into whichever scope holds the session. When the backend rejects
// the refresh token the session is over: both scopes are cleared and a
// session-expired error is returned.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	refresh, scope, ok, err := s.vault.Read(ctx, ports.KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if !ok || refresh == "" {
		return "", apperrors.NoSession("no refresh token available")
	}

	res, err := s.backend.Refresh(ctx, refresh)
	if err != nil {
		if apperrors.IsSessionExpired(err) {
			if clearErr := s.vault.ClearSession(ctx); clearErr != nil {
				s.logger.ErrorContext(ctx, "clear session after rejected refresh failed",
					slog.String("error", clearErr.Error()))
			}
			s.logger.InfoContext(ctx, "refresh token rejected, session ended")
		}
		// Transport failures pass through untouched: the session may still
		// be valid, so local state is kept.
		return "", err
	}

	if err := s.vault.WriteTokens(ctx, scope, res.Access, res.Refresh); err != nil {
		return "", err
	}
	return res.Access, nil
}

// EndSession clears local auth state without contacting the backend.
// Used when the backend has already rejected the credentials and there is
// nothing left to invalidate.
func (s *AuthService) EndSession(ctx context.Context) error {
	s.logger.InfoContext(ctx, "session ended locally")
	return s.vault.ClearSession(ctx)
}

// ChangePassword changes the authenticated user's password.
func (s *AuthService) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if newPassword == "" {
		return apperrors.ValidationField("new_password", "new password is required")
	}
	if newPassword != confirmPassword {
		return apperrors.ValidationField("confirm_password", "passwords do not match")
	}

	access, _, ok, err := s.vault.Read(ctx, ports.KeyAccessToken)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NoSession("not signed in")
	}

	return s.backend.ChangePassword(ctx, ports.ChangePasswordInput{
		AccessToken:     access,
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
}

// CurrentUser returns the stored identity, or false when signed out.
// A stored user that fails to parse is treated as no session; the
// offending scope's credentials are cleared so bootstrap never crashes
// on corrupt state.
func (s *AuthService) CurrentUser(ctx context.Context) (session.User, bool) {
	raw, scope, ok, err := s.vault.Read(ctx, ports.KeyUser)
	if err != nil || !ok {
		return session.User{}, false
	}

	var u session.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || !u.Role.Valid() {
		s.logger.WarnContext(ctx, "stored user is malformed, clearing scope",
			slog.String("scope", string(scope)))
		if clearErr := s.vault.ClearAuthScope(ctx, scope); clearErr != nil {
			s.logger.ErrorContext(ctx, "clear malformed scope failed",
				slog.String("error", clearErr.Error()))
		}
		return session.User{}, false
	}
	return u, true
}

// CurrentRole returns the signed-in role, or false when signed out.
func (s *AuthService) CurrentRole(ctx context.Context) (session.Role, bool) {
	u, ok := s.CurrentUser(ctx)
	if !ok {
		return "", false
	}
	return u.Role, true
}

// IsAuthenticated reports whether a usable session exists: both an access
// token and a parseable user.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	_, _, hasToken, err := s.vault.Read(ctx, ports.KeyAccessToken)
	if err != nil || !hasToken {
		return false
	}
	_, ok := s.CurrentUser(ctx)
	return ok
}

// AccessToken returns the current access token, or false when absent.
func (s *AuthService) AccessToken(ctx context.Context) (string, bool) {
	tok, _, ok, err := s.vault.Read(ctx, ports.KeyAccessToken)
	if err != nil || !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// HasRole reports whether the current role is one of required.
// An empty required list only demands authentication.
func (s *AuthService) HasRole(ctx context.Context, required ...session.Role) bool {
	role, ok := s.CurrentRole(ctx)
	if !ok {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// RememberedEmail returns the email remembered from the last persistent
// login, or empty when none.
func (s *AuthService) RememberedEmail(ctx context.Context) string {
	val, ok, err := s.vault.Store(session.ScopePersistent).Get(ctx, ports.KeyRememberedEmail)
	if err != nil || !ok {
		return ""
	}
	return val
}
