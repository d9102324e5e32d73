package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mediwound/wardview/internal/errors"
)

// mockSession implements SessionController with overridable behavior.
type mockSession struct {
	mu           sync.Mutex
	token        string
	refreshCalls int32
	endCalls     int32

	refreshFunc func(ctx context.Context) (string, error)
}

func (m *mockSession) AccessToken(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *mockSession) Refresh(ctx context.Context) (string, error) {
	atomic.AddInt32(&m.refreshCalls, 1)
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = "refreshed-token"
	return m.token, nil
}

func (m *mockSession) EndSession(ctx context.Context) error {
	atomic.AddInt32(&m.endCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func newTestClient(t *testing.T, baseURL string, sess *mockSession, opts ...func(*Options)) *Client {
	t.Helper()
	o := Options{
		BaseURL:   baseURL,
		UserAgent: "wardview-test",
		Timeout:   5 * time.Second,
		Session:   sess,
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := NewClient(o)
	require.NoError(t, err)
	return c
}

func TestGetAttachesBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "wardview-test", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	sess := &mockSession{token: "tok-1"}
	c := newTestClient(t, srv.URL, sess)

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/ping/", nil, &out))
	assert.Equal(t, "yes", out["ok"])
	assert.Zero(t, atomic.LoadInt32(&sess.refreshCalls))
}

func TestCredentialRejectionRefreshesAndReplaysOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer refreshed-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]int{"value": 7})
	}))
	defer srv.Close()

	sess := &mockSession{token: "stale"}
	c := newTestClient(t, srv.URL, sess)

	var out map[string]int
	require.NoError(t, c.Get(context.Background(), "/data/", nil, &out))
	assert.Equal(t, 7, out["value"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshCalls))
	assert.Zero(t, atomic.LoadInt32(&sess.endCalls))
}

func TestSecondRejectionEndsSessionWithoutSecondRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	expired := false
	sess := &mockSession{token: "stale"}
	c := newTestClient(t, srv.URL, sess, func(o *Options) {
		o.OnSessionExpired = func() { expired = true }
	})

	err := c.Get(context.Background(), "/data/", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionExpired(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sess.endCalls))
	assert.True(t, expired)
}

func TestRejectedRefreshEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &mockSession{token: "stale"}
	sess.refreshFunc = func(ctx context.Context) (string, error) {
		return "", apperrors.SessionExpired("refresh token rejected")
	}
	c := newTestClient(t, srv.URL, sess)

	err := c.Get(context.Background(), "/data/", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionExpired(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sess.endCalls))
}

func TestPermissionFailurePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "admin role required"})
	}))
	defer srv.Close()

	sess := &mockSession{token: "tok-1"}
	c := newTestClient(t, srv.URL, sess)

	err := c.Get(context.Background(), "/users/", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Contains(t, err.Error(), "admin role required")
	// A 403 is not a credential problem: no refresh, no logout.
	assert.Zero(t, atomic.LoadInt32(&sess.refreshCalls))
	assert.Zero(t, atomic.LoadInt32(&sess.endCalls))
	tok, ok := sess.AccessToken(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)
}

func TestConcurrentRejectionsCoalesceIntoOneRefresh(t *testing.T) {
	const workers = 8

	var mu sync.Mutex
	rejected := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reject each stale-token request once; accept refreshed tokens.
		if r.Header.Get("Authorization") == "Bearer refreshed-token" {
			_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
			return
		}
		mu.Lock()
		rejected[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &mockSession{token: "stale"}
	var slowRefresh int32
	sess.refreshFunc = func(ctx context.Context) (string, error) {
		atomic.AddInt32(&slowRefresh, 1)
		time.Sleep(50 * time.Millisecond)
		sess.mu.Lock()
		sess.token = "refreshed-token"
		sess.mu.Unlock()
		return "refreshed-token", nil
	}
	c := newTestClient(t, srv.URL, sess)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/data/", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&slowRefresh))
}

func TestProactiveRefreshBeforeExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer refreshed-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	// Token that expires in 10 seconds, against a 30 second skew window.
	expiring, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(10 * time.Second).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	sess := &mockSession{token: expiring}
	c := newTestClient(t, srv.URL, sess, func(o *Options) {
		o.RefreshSkew = 30 * time.Second
	})

	require.NoError(t, c.Get(context.Background(), "/data/", nil, nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshCalls))
}

func TestProactiveRefreshSkipsFreshToken(t *testing.T) {
	fresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	sess := &mockSession{token: fresh}
	c := newTestClient(t, srv.URL, sess, func(o *Options) {
		o.RefreshSkew = 30 * time.Second
	})

	require.NoError(t, c.Get(context.Background(), "/data/", nil, nil))
	assert.Zero(t, atomic.LoadInt32(&sess.refreshCalls))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, `{"detail":"no such patient"}`, apperrors.IsNotFound},
		{"validation", http.StatusUnprocessableEntity, `{"error":"mrn already exists"}`, apperrors.IsValidation},
		{"server error", http.StatusInternalServerError, ``, func(err error) bool {
			return apperrors.GetCode(err) == apperrors.ErrCodeInternal
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, &mockSession{token: "tok"})
			err := c.Get(context.Background(), "/x/", nil, nil)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := newTestClient(t, srv.URL, &mockSession{token: "tok"})
	err := c.Get(context.Background(), "/x/", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestPostReplaysBodyAfterRefresh(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		mu.Lock()
		bodies = append(bodies, in["name"])
		mu.Unlock()
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	sess := &mockSession{token: "stale"}
	c := newTestClient(t, srv.URL, sess)

	require.NoError(t, c.Post(context.Background(), "/clinical/patients/", map[string]string{"name": "Ada"}, nil))
	require.Len(t, bodies, 2)
	assert.Equal(t, "Ada", bodies[0])
	assert.Equal(t, "Ada", bodies[1])
}
