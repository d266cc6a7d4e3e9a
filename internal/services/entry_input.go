package services

import (
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/artemis-health/artemis/internal/models"
)

const (
	maxTagsPerSet  = 16
	maxTagLength   = 64
	maxNotesLength = 2000
)

var (
	ErrPainLevelRequired  = errors.New("pain level is required")
	ErrInvalidPainLevel   = errors.New("pain level must be between 0 and 4")
	ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 5")
	ErrInvalidDate        = errors.New("invalid date")
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrInvalidBleeding    = errors.New("invalid bleeding option")
	ErrInvalidMood        = errors.New("invalid mood option")
	ErrTooManyTags        = errors.New("too many tags")
	ErrTagTooLong         = errors.New("tag too long")
	ErrNotesTooLong       = errors.New("notes too long")
)

// EntryInput is the unvalidated shape of a new entry. Nil pointers mean
// "not provided"; a nil PainLevel is rejected, a nil EnergyLevel defaults.
type EntryInput struct {
	Date         string   `json:"date" form:"date"`
	PainLevel    *int     `json:"pain_level" form:"pain_level"`
	PainLocation []string `json:"pain_location" form:"pain_location"`
	PainType     []string `json:"pain_type" form:"pain_type"`
	Bleeding     string   `json:"bleeding" form:"bleeding"`
	Mood         string   `json:"mood" form:"mood"`
	EnergyLevel  *int     `json:"energy_level" form:"energy_level"`
	Notes        string   `json:"notes" form:"notes"`
}

// NormalizeEntryInput validates input against today (a LocalDay value) and
// returns the entry to store, without UserID.
func NormalizeEntryInput(input EntryInput, today time.Time) (models.SymptomEntry, error) {
	if input.PainLevel == nil {
		return models.SymptomEntry{}, ErrPainLevelRequired
	}
	painLevel := *input.PainLevel
	if painLevel < models.MinPainLevel || painLevel > models.MaxPainLevel {
		return models.SymptomEntry{}, ErrInvalidPainLevel
	}

	energyLevel := models.DefaultEnergyLevel
	if input.EnergyLevel != nil {
		energyLevel = *input.EnergyLevel
	}
	if energyLevel < models.MinEnergyLevel || energyLevel > models.MaxEnergyLevel {
		return models.SymptomEntry{}, ErrInvalidEnergyLevel
	}

	day := today
	if strings.TrimSpace(input.Date) != "" {
		parsed, err := ParseDay(input.Date)
		if err != nil {
			return models.SymptomEntry{}, ErrInvalidDate
		}
		day = parsed
	}
	if day.After(today) {
		return models.SymptomEntry{}, ErrFutureDate
	}

	bleeding := strings.TrimSpace(input.Bleeding)
	if bleeding != "" && !slices.Contains(models.BleedingOptions(), bleeding) {
		return models.SymptomEntry{}, ErrInvalidBleeding
	}
	mood := strings.TrimSpace(input.Mood)
	if mood != "" && !isMoodOption(mood) {
		return models.SymptomEntry{}, ErrInvalidMood
	}

	locations, err := NormalizeTags(input.PainLocation)
	if err != nil {
		return models.SymptomEntry{}, err
	}
	types, err := NormalizeTags(input.PainType)
	if err != nil {
		return models.SymptomEntry{}, err
	}

	notes := strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return models.SymptomEntry{}, ErrNotesTooLong
	}

	return models.SymptomEntry{
		Date:         day,
		PainLevel:    painLevel,
		PainLocation: locations,
		PainType:     types,
		Bleeding:     bleeding,
		Mood:         mood,
		EnergyLevel:  energyLevel,
		Notes:        notes,
	}, nil
}

// NormalizeTags trims tags and drops blanks and case-insensitive duplicates,
// keeping the first spelling and the original order. The vocabulary is open.
func NormalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		tag := strings.Join(strings.Fields(value), " ")
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, ErrTagTooLong
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxTagsPerSet {
		return nil, ErrTooManyTags
	}
	return tags, nil
}

func isMoodOption(label string) bool {
	for _, option := range models.MoodOptions() {
		if option.Label == label {
			return true
		}
	}
	return false
}

// IsValidationError reports input errors that should be shown as a 400, not a 500.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrPainLevelRequired, ErrInvalidPainLevel, ErrInvalidEnergyLevel, ErrInvalidDate,
		ErrFutureDate, ErrInvalidBleeding, ErrInvalidMood, ErrTooManyTags, ErrTagTooLong,
		ErrNotesTooLong, ErrAuthCredentialsInvalid, ErrPasswordMismatch, ErrWeakPassword,
		ErrPasswordTooLong, ErrFullNameTooLong, ErrEmailTaken, ErrUnknownFormAction,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
