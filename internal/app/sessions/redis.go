package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

const (
	sessionKeyPrefix = "gradedesk:session:" // String: gradedesk:session:{id} -> encoded workspace
	maxUpdateRetries = 10
)

// RedisOptions configures the redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps workspaces in redis so several console instances can share sessions
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient creates a redis client and pings it
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// NewRedisStore creates a store on top of an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "sessions.redis").Logger(),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get returns the workspace and refreshes its expiry
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Workspace, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, sessionKey(id), s.ttl).Err(); err != nil {
			s.logger.Warn().Err(err).Str("session", id).Msg("failed to refresh session expiry")
		}
	}
	return decodeWorkspace(id, data)
}

// Put stores ws
func (s *RedisStore) Put(ctx context.Context, ws *models.Workspace) error {
	data, err := encodeWorkspace(ws)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(ws.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Update applies fn inside an optimistic WATCH/MULTI transaction, retrying
// when another instance wrote the same session in between.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	key := sessionKey(id)
	var updated *models.Workspace

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, id)
			}
			return err
		}

		ws, err := decodeWorkspace(id, data)
		if err != nil {
			return err
		}
		if err := fn(ws); err != nil {
			return err
		}
		ws.UpdatedAt = time.Now()

		out, err := encodeWorkspace(ws)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			updated = ws
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("session %s update kept conflicting after %d attempts", id, maxUpdateRetries)
}

// Close closes the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
