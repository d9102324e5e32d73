package config

import (
	"os"
	"path/filepath"
	"strings"
)

// StateBackend selects where the persistent scope of local state lives.
type StateBackend string

const (
	// StateBackendFile keeps persistent state in a JSON file under Dir.
	StateBackendFile StateBackend = "file"
	// StateBackendRedis keeps persistent state in Redis, for shared
	// workstation (kiosk) deployments where the local disk is wiped
	// between shifts.
	StateBackendRedis StateBackend = "redis"
)

// StateConfig contains configuration for local state storage.
//
// The console keeps two state scopes: a persistent scope that survives
// restarts (backed by file or Redis) and a session scope that lives only
// for the process lifetime (always in memory).
type StateConfig struct {
	// Backend selects the persistent scope implementation.
	Backend StateBackend `env:"STATE_BACKEND" envDefault:"file"`

	// Dir is the directory holding the persistent state file.
	// Defaults to ~/.wardview when empty.
	Dir string `env:"STATE_DIR"`

	// Redis configures the Redis persistent backend.
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig contains Redis connection configuration for the kiosk backend.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	// KeyPrefix namespaces this workstation's keys. Defaults to the
	// hostname so workstations sharing one Redis do not collide.
	KeyPrefix string `env:"KEY_PREFIX"`
}

// Sanitize applies guardrails to state configuration values.
func (s *StateConfig) Sanitize() {
	switch s.Backend {
	case StateBackendFile, StateBackendRedis:
	default:
		s.Backend = StateBackendFile
	}

	if strings.TrimSpace(s.Dir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// Fall back to the working directory; bootstrap will surface
			// a clearer error if it is unwritable.
			home = "."
		}
		s.Dir = filepath.Join(home, ".wardview")
	}

	if s.Redis.KeyPrefix == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "wardview"
		}
		s.Redis.KeyPrefix = "wardview:" + host + ":"
	}
}
