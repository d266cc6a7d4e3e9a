package db

import (
	"context"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"gorm.io/gorm"
)

// SessionRepository is the relational session store.
type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Create(ctx context.Context, session models.Session) error {
	return repo.database.WithContext(ctx).Create(&session).Error
}

func (repo *SessionRepository) Find(ctx context.Context, sessionID string) (models.Session, bool, error) {
	var session models.Session
	result := repo.database.WithContext(ctx).Where("id = ?", sessionID).Limit(1).Find(&session)
	if result.Error != nil {
		return models.Session{}, false, result.Error
	}
	return session, result.RowsAffected > 0, nil
}

func (repo *SessionRepository) Revoke(ctx context.Context, sessionID string, at time.Time) error {
	return repo.database.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", at).Error
}

func (repo *SessionRepository) RevokeAllForUser(ctx context.Context, userID uint, at time.Time) ([]string, error) {
	var ids []string
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Session{}).
			Where("id IN ?", ids).
			Update("revoked_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteExpired drops rows that can no longer authenticate anyone.
func (repo *SessionRepository) DeleteExpired(ctx context.Context, userID uint, now time.Time) error {
	return repo.database.WithContext(ctx).
		Where("user_id = ? AND (expires_at < ? OR revoked_at IS NOT NULL)", userID, now).
		Delete(&models.Session{}).Error
}
