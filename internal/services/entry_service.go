package services

import (
	"context"
	"fmt"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

type SymptomEntryRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.SymptomEntry, error)
	Create(ctx context.Context, entry *models.SymptomEntry) error
}

type EntryService struct {
	entries  SymptomEntryRepository
	location *time.Location
	now      func() time.Time
}

func NewEntryService(entries SymptomEntryRepository, location *time.Location) *EntryService {
	if location == nil {
		location = time.UTC
	}
	return &EntryService{entries: entries, location: location, now: time.Now}
}

func (service *EntryService) Today() time.Time {
	return LocalDay(service.now(), service.location)
}

// List returns every entry of the user, newest date first.
func (service *EntryService) List(ctx context.Context, userID uint) ([]models.SymptomEntry, error) {
	entries, err := service.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return entries, nil
}

func (service *EntryService) Create(ctx context.Context, userID uint, input EntryInput) (models.SymptomEntry, error) {
	entry, err := NormalizeEntryInput(input, service.Today())
	if err != nil {
		return models.SymptomEntry{}, err
	}
	entry.UserID = userID
	if err := service.entries.Create(ctx, &entry); err != nil {
		return models.SymptomEntry{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return entry, nil
}
