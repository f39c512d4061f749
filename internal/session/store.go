package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps session documents in Redis under session:<id> with a
// sliding expiry.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf("%s%s", keyPrefix, id)
}

func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.Error("Failed to load session from Redis", err, map[string]interface{}{
			"session_id": id,
		})
		return nil, err
	}

	sess, err := loadSession(id, data)
	if err != nil {
		logger.Warn("Discarding undecodable session document", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := sess.encode()
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(sess.ID), data, s.ttl).Err(); err != nil {
		logger.Error("Failed to save session to Redis", err, map[string]interface{}{
			"session_id": sess.ID,
		})
		return err
	}
	sess.isNew = false
	sess.dirty = false
	return nil
}

// Touch extends the expiry of an unchanged session.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, key(id), s.ttl).Err()
}
