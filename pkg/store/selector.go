package store

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanbyul/triago/internal/metrics"
)

// Config holds remote backend settings consumed by the selector.
type Config struct {
	// URL is the Redis connection URL. Empty means no remote backend.
	URL string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// TTL overrides the default two-hour inactivity window. Zero keeps
	// the default.
	TTL time.Duration
}

// Select constructs the one store used for the process lifetime: Redis when
// configured and reachable, the in-process fallback otherwise. The choice is
// logged because it decides whether conversations survive a restart.
func Select(cfg Config, logger zerolog.Logger) ConversationStore {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 3 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}

	st, err := NewRedisStore(cfg, logger)
	if err == nil {
		metrics.SetStoreBackend(st.Type())
		return st
	}

	if errors.Is(err, ErrNotConfigured) {
		logger.Warn().Msg("No redis URL configured, using in-memory conversation store; state will not survive a restart")
	} else {
		logger.Warn().Err(err).Msg("Redis unreachable, falling back to in-memory conversation store")
	}

	mem := NewMemoryStore()
	metrics.SetStoreBackend(mem.Type())
	return mem
}
