package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	ChartEntryLimit  = 14
	RecentEntryLimit = 10

	chartLabelLayout = "Jan 2"
	dayLabelLayout   = "Mon, Jan 2"
)

var painLabels = [...]string{"No Pain", "Mild", "Moderate", "Severe", "Emergency"}

func PainLabel(level int) string {
	if level < 0 || level >= len(painLabels) {
		return "Unknown"
	}
	return painLabels[level]
}

func EnergyLabel(level int) string {
	labels := models.EnergyLabels()
	if level < models.MinEnergyLevel || level > len(labels) {
		return ""
	}
	return labels[level-1]
}

func MoodEmoji(label string) string {
	for _, option := range models.MoodOptions() {
		if option.Label == label {
			return option.Emoji
		}
	}
	return ""
}

type ChartPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Pain  int       `json:"pain_level"`
}

// ChartData takes the newest ChartEntryLimit entries of a date-descending list
// and returns them oldest first.
func ChartData(entries []models.SymptomEntry) []ChartPoint {
	count := min(len(entries), ChartEntryLimit)
	points := make([]ChartPoint, count)
	for index := 0; index < count; index++ {
		entry := entries[count-1-index]
		points[index] = ChartPoint{
			Date:  entry.Date,
			Label: entry.Date.Format(chartLabelLayout),
			Pain:  entry.PainLevel,
		}
	}
	return points
}

type RecentEntry struct {
	models.SymptomEntry
	DayLabel    string
	PainLabel   string
	EnergyLabel string
	MoodEmoji   string
}

func (entry RecentEntry) HasDetails() bool {
	return len(entry.PainLocation) > 0 || len(entry.PainType) > 0 || entry.Bleeding != "" || entry.Mood != "" || entry.Notes != ""
}

func RecentEntries(entries []models.SymptomEntry) []RecentEntry {
	count := min(len(entries), RecentEntryLimit)
	recent := make([]RecentEntry, 0, count)
	for _, entry := range entries[:count] {
		recent = append(recent, RecentEntry{
			SymptomEntry: entry,
			DayLabel:     entry.Date.Format(dayLabelLayout),
			PainLabel:    PainLabel(entry.PainLevel),
			EnergyLabel:  EnergyLabel(entry.EnergyLevel),
			MoodEmoji:    MoodEmoji(entry.Mood),
		})
	}
	return recent
}

type Dashboard struct {
	Greeting string
	Empty    bool
	Stats    EntryStats
	Chart    PainChart
	Recent   []RecentEntry
}

func BuildDashboard(greeting string, entries []models.SymptomEntry) Dashboard {
	return Dashboard{
		Greeting: greeting,
		Empty:    len(entries) == 0,
		Stats:    BuildEntryStats(entries),
		Chart:    BuildPainChart(ChartData(entries)),
		Recent:   RecentEntries(entries),
	}
}

type DashboardService struct {
	profiles *ProfileService
	entries  *EntryService
}

func NewDashboardService(profiles *ProfileService, entries *EntryService) *DashboardService {
	return &DashboardService{profiles: profiles, entries: entries}
}

// Load reads the profile and the entries independently. Each failed read
// degrades to its default and is reported through the returned error, which
// wraps ErrReadFailure; the Dashboard is always usable.
func (service *DashboardService) Load(ctx context.Context, userID uint) (Dashboard, error) {
	var (
		group      errgroup.Group
		greeting   string
		entries    []models.SymptomEntry
		profileErr error
		entriesErr error
	)

	group.Go(func() error {
		greeting, profileErr = service.profiles.Greeting(ctx, userID)
		return nil
	})
	group.Go(func() error {
		entries, entriesErr = service.entries.List(ctx, userID)
		return nil
	})
	_ = group.Wait()

	if entriesErr != nil {
		entries = nil
	}
	dashboard := BuildDashboard(greeting, entries)

	if err := errors.Join(profileErr, entriesErr); err != nil {
		if !errors.Is(err, ErrReadFailure) {
			err = fmt.Errorf("%w: %v", ErrReadFailure, err)
		}
		return dashboard, err
	}
	return dashboard, nil
}
