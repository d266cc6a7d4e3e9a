package services

import (
	"context"
	"fmt"

	"github.com/artemis-health/artemis/internal/models"
)

// FallbackDisplayName greets users without a stored name.
const FallbackDisplayName = "Warrior"

type ProfileRepository interface {
	FindByID(ctx context.Context, userID uint) (models.Profile, bool, error)
	UpsertFullName(ctx context.Context, userID uint, fullName string) error
}

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Profile tolerates a missing row and returns an empty profile for it.
func (service *ProfileService) Profile(ctx context.Context, userID uint) (models.Profile, error) {
	profile, found, err := service.profiles.FindByID(ctx, userID)
	if err != nil {
		return models.Profile{ID: userID}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if !found {
		return models.Profile{ID: userID}, nil
	}
	return profile, nil
}

// Greeting falls back to FallbackDisplayName even when the read fails; the
// error is still returned so the caller can log it.
func (service *ProfileService) Greeting(ctx context.Context, userID uint) (string, error) {
	profile, err := service.Profile(ctx, userID)
	return DisplayName(profile.FullName), err
}

func (service *ProfileService) Rename(ctx context.Context, userID uint, raw string) (models.Profile, error) {
	fullName, err := NormalizeFullName(raw)
	if err != nil {
		return models.Profile{}, err
	}
	if err := service.profiles.UpsertFullName(ctx, userID, fullName); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return models.Profile{ID: userID, FullName: fullName}, nil
}

func DisplayName(fullName string) string {
	if name, _ := NormalizeFullName(fullName); name != "" {
		return name
	}
	return FallbackDisplayName
}
