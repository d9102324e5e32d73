package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/ports"
)

func newTestBackend(t *testing.T, handler http.Handler) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := New(Config{BaseURL: srv.URL, UserAgent: "wardview-test"})
	require.NoError(t, err)
	return b
}

func TestLoginSuccess(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nurse@x.com", body["email"])
		assert.Equal(t, "p", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access":  "acc-1",
			"refresh": "ref-1",
			"user":    map[string]any{"id": 7, "name": "A. Okafor", "email": "nurse@x.com", "role": "Nurse"},
		})
	}))

	res, err := backend.Login(context.Background(), "nurse@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", res.Tokens.Access)
	assert.Equal(t, "ref-1", res.Tokens.Refresh)
	assert.Equal(t, "nurse@x.com", res.User.Email)
	assert.Equal(t, "Nurse", string(res.User.Role))
}

func TestLoginRejected(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
	}))

	_, err := backend.Login(context.Background(), "nurse@x.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestLoginUnknownRole(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access":  "acc-1",
			"refresh": "ref-1",
			"user":    map[string]any{"id": 1, "role": "Janitor"},
		})
	}))

	_, err := backend.Login(context.Background(), "a@x.com", "p")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
}

func TestLoginNetworkError(t *testing.T) {
	b, err := New(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = b.Login(context.Background(), "a@x.com", "p")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestLogoutSendsBearerAndRefreshToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, backend.Logout(context.Background(), "acc-1", "ref-1"))
	assert.Equal(t, "Bearer acc-1", gotAuth)
	assert.Equal(t, "ref-1", gotBody["refresh_token"])
}

func TestRefreshSuccessWithRotation(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/token/refresh/", r.URL.Path)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "ref-1", body["refresh"])
		json.NewEncoder(w).Encode(map[string]string{"access": "acc-2", "refresh": "ref-2"})
	}))

	res, err := backend.Refresh(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", res.Access)
	assert.Equal(t, "ref-2", res.Refresh)
}

func TestRefreshSuccessWithoutRotation(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": "acc-2"})
	}))

	res, err := backend.Refresh(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", res.Access)
	assert.Empty(t, res.Refresh)
}

func TestRefreshRejected(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is blacklisted"})
	}))

	_, err := backend.Refresh(context.Background(), "ref-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionExpired(err))
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]string
		wantCode apperrors.ErrorCode
	}{
		{"success", http.StatusOK, nil, ""},
		{"wrong old password", http.StatusBadRequest, map[string]string{"error": "Old password is incorrect"}, apperrors.ErrCodeValidation},
		{"not authenticated", http.StatusUnauthorized, nil, apperrors.ErrCodeNoSession},
		{"server error", http.StatusInternalServerError, nil, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/auth/change-password/", r.URL.Path)
				assert.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				if tt.body != nil {
					json.NewEncoder(w).Encode(tt.body)
				}
			}))

			err := backend.ChangePassword(context.Background(), ports.ChangePasswordInput{
				AccessToken:     "acc-1",
				OldPassword:     "old",
				NewPassword:     "new",
				ConfirmPassword: "new",
			})
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			}
		})
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
