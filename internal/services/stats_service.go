package services

import (
	"math"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

type EntryStats struct {
	Count         int        `json:"count"`
	AveragePain   float64    `json:"average_pain"`
	AverageEnergy float64    `json:"average_energy"`
	LastEntryDate *time.Time `json:"last_entry_date"`
}

// BuildEntryStats expects entries sorted by date descending.
func BuildEntryStats(entries []models.SymptomEntry) EntryStats {
	stats := EntryStats{Count: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	painSum := 0
	energySum := 0
	for _, entry := range entries {
		painSum += entry.PainLevel
		energySum += entry.EnergyLevel
	}
	stats.AveragePain = roundToTenth(float64(painSum) / float64(len(entries)))
	stats.AverageEnergy = roundToTenth(float64(energySum) / float64(len(entries)))

	last := entries[0].Date
	stats.LastEntryDate = &last
	return stats
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
