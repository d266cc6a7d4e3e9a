package db

import (
	"context"

	"github.com/artemis-health/artemis/internal/models"
	"gorm.io/gorm"
)

type SymptomEntryRepository struct {
	database *gorm.DB
}

func NewSymptomEntryRepository(database *gorm.DB) *SymptomEntryRepository {
	return &SymptomEntryRepository{database: database}
}

func (repo *SymptomEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.SymptomEntry, error) {
	entries := make([]models.SymptomEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *SymptomEntryRepository) Create(ctx context.Context, entry *models.SymptomEntry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}
