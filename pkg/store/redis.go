package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hanbyul/triago/internal/metrics"
)

// RedisStore is the durable backend. Records are stored as JSON strings
// under "conversation:<id>" with an inactivity TTL, so abandoned
// conversations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore connects to Redis and verifies liveness with a PING.
// Returns ErrNotConfigured when cfg.URL is empty and a connectivity
// StoreError when the ping fails; both trigger fallback in the selector.
func NewRedisStore(cfg Config, logger zerolog.Logger) (*RedisStore, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &StoreError{Kind: KindConfiguration, Op: "connect", Err: err}
	}

	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &StoreError{Kind: KindConnectivity, Op: "connect", Err: err}
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	logger.Info().Str("addr", opts.Addr).Dur("ttl", ttl).Msg("Connected to redis conversation store")

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get fetches and decodes a record. An absent key returns (nil, nil). Any
// transport or decode failure is logged and reported as a read StoreError;
// an unreadable conversation is equivalent to no conversation.
func (s *RedisStore) Get(ctx context.Context, conversationID string) (*Record, error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("get", s.Type(), time.Since(start)) }()

	data, err := s.client.Get(ctx, Key(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		metrics.IncStoreError("get", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Redis get failed")
		return nil, &StoreError{Kind: KindRead, Op: "get", Err: err}
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		metrics.IncStoreError("get", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Failed to decode stored record")
		return nil, &StoreError{Kind: KindRead, Op: "get", Err: err}
	}

	return &rec, nil
}

// Save serializes the record and writes it with the inactivity TTL
// attached. Failures are logged and reported; the caller swallows them.
func (s *RedisStore) Save(ctx context.Context, conversationID string, rec *Record) error {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("save", s.Type(), time.Since(start)) }()

	data, err := json.Marshal(rec)
	if err != nil {
		metrics.IncStoreError("save", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Failed to encode record")
		return &StoreError{Kind: KindWrite, Op: "save", Err: err}
	}
	if len(data) > maxRecordBytes {
		metrics.IncStoreError("save", s.Type())
		err := fmt.Errorf("record is %d bytes, limit %d", len(data), maxRecordBytes)
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Record too large to persist")
		return &StoreError{Kind: KindWrite, Op: "save", Err: err}
	}

	if err := s.client.Set(ctx, Key(conversationID), data, s.ttl).Err(); err != nil {
		metrics.IncStoreError("save", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Redis save failed")
		return &StoreError{Kind: KindWrite, Op: "save", Err: err}
	}

	return nil
}

// Delete removes the record. Idempotent; deleting an absent key succeeds.
func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, Key(conversationID)).Err(); err != nil {
		metrics.IncStoreError("delete", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Redis delete failed")
		return &StoreError{Kind: KindWrite, Op: "delete", Err: err}
	}
	return nil
}

// ExtendTTL resets the inactivity countdown on an existing key without
// rewriting the record. Missing keys are ignored.
func (s *RedisStore) ExtendTTL(ctx context.Context, conversationID string) error {
	if err := s.client.Expire(ctx, Key(conversationID), s.ttl).Err(); err != nil {
		metrics.IncStoreError("extend_ttl", s.Type())
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Redis TTL extend failed")
		return &StoreError{Kind: KindWrite, Op: "extend_ttl", Err: err}
	}
	return nil
}

// Type identifies this backend.
func (s *RedisStore) Type() string {
	return "redis"
}

// Close releases the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
