package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Opaque bearer tokens in redis. Value is "<kind>:<id>" where kind is
// "user" or "admin".

const (
	sessionTTL       = 7 * 24 * time.Hour
	sessionKeyPrefix = "session:"

	SessionUser  = "user"
	SessionAdmin = "admin"
)

func (s *Store) CreateSession(ctx context.Context, kind string, id uint) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token
	val := fmt.Sprintf("%s:%d", kind, id)
	if err := s.Redis.Set(ctx, key, val, sessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) GetSession(ctx context.Context, token string) (string, uint, error) {
	val, err := s.Redis.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", 0, ErrSessionNotFound
		}
		return "", 0, err
	}

	kind, idStr, ok := strings.Cut(val, ":")
	if !ok {
		return "", 0, ErrSessionNotFound
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return "", 0, ErrSessionNotFound
	}
	return kind, uint(id), nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, sessionKeyPrefix+token).Err()
}
