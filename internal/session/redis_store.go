package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "artemis:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses a redis:// URL and checks the connection once.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func sessionKey(sessionID string) string {
	return redisKeyPrefix + "session:" + sessionID
}

func userSessionsKey(userID uint) string {
	return redisKeyPrefix + "user-sessions:" + strconv.FormatUint(uint64(userID), 10)
}

func (store *RedisStore) Create(ctx context.Context, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := store.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.ExpireGT(ctx, userSessionsKey(session.UserID), ttl)
	pipe.ExpireNX(ctx, userSessionsKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (store *RedisStore) Find(ctx context.Context, sessionID string) (models.Session, bool, error) {
	payload, err := store.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, err
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return session, true, nil
}

func (store *RedisStore) Revoke(ctx context.Context, sessionID string, at time.Time) error {
	session, found, err := store.Find(ctx, sessionID)
	if err != nil || !found || session.RevokedAt != nil {
		return err
	}

	revokedAt := at.UTC()
	session.RevokedAt = &revokedAt
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, sessionKey(sessionID), payload, redis.KeepTTL).Err()
}

func (store *RedisStore) RevokeAllForUser(ctx context.Context, userID uint, at time.Time) ([]string, error) {
	members, err := store.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	revoked := make([]string, 0, len(members))
	for _, sessionID := range members {
		session, found, err := store.Find(ctx, sessionID)
		if err != nil {
			return revoked, err
		}
		if !found {
			store.client.SRem(ctx, userSessionsKey(userID), sessionID)
			continue
		}
		if session.RevokedAt != nil {
			continue
		}
		if err := store.Revoke(ctx, sessionID, at); err != nil {
			return revoked, err
		}
		revoked = append(revoked, sessionID)
	}
	return revoked, nil
}
