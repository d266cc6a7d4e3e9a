package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := ParseDay(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}

func intPointer(value int) *int {
	return &value
}

type stubEntryRepository struct {
	mu        sync.Mutex
	entries   []models.SymptomEntry
	listErr   error
	createErr error
	created   []models.SymptomEntry
}

func (stub *stubEntryRepository) ListByUser(_ context.Context, userID uint) ([]models.SymptomEntry, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.SymptomEntry, 0, len(stub.entries))
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (stub *stubEntryRepository) Create(_ context.Context, entry *models.SymptomEntry) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.createErr != nil {
		return stub.createErr
	}
	entry.ID = uint(len(stub.created) + 1)
	stub.created = append(stub.created, *entry)
	return nil
}

type stubProfileRepository struct {
	profiles map[uint]models.Profile
	err      error
}

func (stub *stubProfileRepository) FindByID(_ context.Context, userID uint) (models.Profile, bool, error) {
	if stub.err != nil {
		return models.Profile{}, false, stub.err
	}
	profile, ok := stub.profiles[userID]
	return profile, ok, nil
}

func (stub *stubProfileRepository) UpsertFullName(_ context.Context, userID uint, fullName string) error {
	if stub.err != nil {
		return stub.err
	}
	if stub.profiles == nil {
		stub.profiles = make(map[uint]models.Profile)
	}
	stub.profiles[userID] = models.Profile{ID: userID, FullName: fullName}
	return nil
}

// descendingEntries builds count entries ending at last, newest first.
func descendingEntries(t *testing.T, last string, count int) []models.SymptomEntry {
	t.Helper()
	start := mustParseDay(t, last)
	entries := make([]models.SymptomEntry, 0, count)
	for index := 0; index < count; index++ {
		entries = append(entries, models.SymptomEntry{
			ID:          uint(count - index),
			UserID:      1,
			Date:        start.AddDate(0, 0, -index),
			PainLevel:   index % 5,
			EnergyLevel: 3,
		})
	}
	return entries
}
