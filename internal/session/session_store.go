// Package session persists the small set of per-session string keys the
// mobile clients rely on between launches: saved user id, the "remember
// session" flag and the preferred language code.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 30 * 24 * time.Hour

var ErrNotFound = errors.New("session key not found")

type (
	Store interface {
		SaveUserID(ctx context.Context, sessionID, userID string) error
		SavedUserID(ctx context.Context, sessionID string) (string, error)
		SetKeepSession(ctx context.Context, sessionID string, keep bool) error
		IsSessionKept(ctx context.Context, sessionID string) (bool, error)
		SaveLanguage(ctx context.Context, sessionID, code string) error
		Language(ctx context.Context, sessionID string) (string, error)
		Clear(ctx context.Context, sessionID string) error
	}

	redisStore struct {
		client *redis.Client
	}
)

func NewRedisStore(addr, password string) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func key(sessionID, field string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, field)
}

func (s *redisStore) SaveUserID(ctx context.Context, sessionID, userID string) error {
	return s.client.Set(ctx, key(sessionID, "user_id"), userID, sessionTTL).Err()
}

func (s *redisStore) SavedUserID(ctx context.Context, sessionID string) (string, error) {
	result := s.client.Get(ctx, key(sessionID, "user_id"))
	if errors.Is(result.Err(), redis.Nil) {
		return "", ErrNotFound
	}
	if result.Err() != nil {
		return "", result.Err()
	}
	return result.Val(), nil
}

func (s *redisStore) SetKeepSession(ctx context.Context, sessionID string, keep bool) error {
	return s.client.Set(ctx, key(sessionID, "keep"), keep, sessionTTL).Err()
}

func (s *redisStore) IsSessionKept(ctx context.Context, sessionID string) (bool, error) {
	result := s.client.Get(ctx, key(sessionID, "keep"))
	if errors.Is(result.Err(), redis.Nil) {
		return false, nil
	}
	if result.Err() != nil {
		return false, result.Err()
	}
	return result.Val() == "1" || result.Val() == "true", nil
}

func (s *redisStore) SaveLanguage(ctx context.Context, sessionID, code string) error {
	return s.client.Set(ctx, key(sessionID, "language"), code, sessionTTL).Err()
}

func (s *redisStore) Language(ctx context.Context, sessionID string) (string, error) {
	result := s.client.Get(ctx, key(sessionID, "language"))
	if errors.Is(result.Err(), redis.Nil) {
		return "", ErrNotFound
	}
	if result.Err() != nil {
		return "", result.Err()
	}
	return result.Val(), nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx,
		key(sessionID, "user_id"),
		key(sessionID, "keep"),
		key(sessionID, "language"),
	).Err()
}
