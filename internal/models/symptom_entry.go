package models

import "time"

const (
	MinPainLevel       = 0
	MaxPainLevel       = 4
	MinEnergyLevel     = 1
	MaxEnergyLevel     = 5
	DefaultEnergyLevel = 3
)

// SymptomEntry is immutable once stored.
type SymptomEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_symptom_entries_user_date" json:"user_id"`
	Date         time.Time `gorm:"type:date;not null;index:idx_symptom_entries_user_date" json:"date"`
	PainLevel    int       `gorm:"not null" json:"pain_level"`
	PainLocation []string  `gorm:"type:text;serializer:json" json:"pain_location"`
	PainType     []string  `gorm:"type:text;serializer:json" json:"pain_type"`
	Bleeding     string    `gorm:"size:32;not null;default:''" json:"bleeding"`
	Mood         string    `gorm:"size:32;not null;default:''" json:"mood"`
	EnergyLevel  int       `gorm:"not null;default:3" json:"energy_level"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
