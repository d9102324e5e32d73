package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAPIConfigSanitize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         APIConfig
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{
			name:        "trailing slash trimmed",
			cfg:         APIConfig{BaseURL: "http://api.local/api/", Timeout: 10 * time.Second},
			wantBaseURL: "http://api.local/api",
			wantTimeout: 10 * time.Second,
		},
		{
			name:        "sub-second timeout restored to default",
			cfg:         APIConfig{BaseURL: "http://api.local/api", Timeout: 100 * time.Millisecond},
			wantBaseURL: "http://api.local/api",
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "zero timeout restored to default",
			cfg:         APIConfig{BaseURL: "http://api.local/api"},
			wantBaseURL: "http://api.local/api",
			wantTimeout: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Sanitize()
			if tt.cfg.BaseURL != tt.wantBaseURL {
				t.Errorf("BaseURL = %q, want %q", tt.cfg.BaseURL, tt.wantBaseURL)
			}
			if tt.cfg.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %v, want %v", tt.cfg.Timeout, tt.wantTimeout)
			}
			if tt.cfg.UserAgent == "" {
				t.Error("UserAgent should never be empty after Sanitize")
			}
		})
	}
}

func TestStateConfigSanitize(t *testing.T) {
	t.Run("unknown backend falls back to file", func(t *testing.T) {
		cfg := StateConfig{Backend: "etcd"}
		cfg.Sanitize()
		if cfg.Backend != StateBackendFile {
			t.Errorf("Backend = %q, want %q", cfg.Backend, StateBackendFile)
		}
	})

	t.Run("empty dir gets a default", func(t *testing.T) {
		cfg := StateConfig{Backend: StateBackendFile}
		cfg.Sanitize()
		if cfg.Dir == "" {
			t.Error("Dir should be defaulted after Sanitize")
		}
	})

	t.Run("redis key prefix is defaulted", func(t *testing.T) {
		cfg := StateConfig{Backend: StateBackendRedis}
		cfg.Sanitize()
		if cfg.Redis.KeyPrefix == "" {
			t.Error("Redis.KeyPrefix should be defaulted after Sanitize")
		}
	})
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://hospital.example.com/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache.internal:6379")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://hospital.example.com/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.State.Backend != StateBackendRedis {
		t.Errorf("State.Backend = %q", cfg.State.Backend)
	}
	if cfg.State.Redis.Addr != "cache.internal:6379" {
		t.Errorf("State.Redis.Addr = %q", cfg.State.Redis.Addr)
	}
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("WARDVIEW_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("IsDev should be true when WARDVIEW_ENV=development")
	}
}
