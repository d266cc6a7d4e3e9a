package session

import (
	"context"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

// Store persists session rows. db.SessionRepository and RedisStore implement it.
type Store interface {
	Create(ctx context.Context, session models.Session) error
	Find(ctx context.Context, sessionID string) (models.Session, bool, error)
	Revoke(ctx context.Context, sessionID string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint, at time.Time) ([]string, error)
}

type expiredPruner interface {
	DeleteExpired(ctx context.Context, userID uint, now time.Time) error
}
