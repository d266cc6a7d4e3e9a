package models

const (
	BleedingNone     = "None"
	BleedingSpotting = "Spotting"
	BleedingLight    = "Light"
	BleedingModerate = "Moderate"
	BleedingHeavy    = "Heavy"
)

const (
	MoodGreat     = "Great"
	MoodGood      = "Good"
	MoodOkay      = "Okay"
	MoodLow       = "Low"
	MoodAnxious   = "Anxious"
	MoodIrritable = "Irritable"
)

type PainScaleLevel struct {
	Level       int
	Label       string
	Description string
	Emoji       string
}

type MoodOption struct {
	Label string
	Emoji string
}

func PainScale() []PainScaleLevel {
	return []PainScaleLevel{
		{Level: 0, Label: "No Pain", Description: "Living normally, no discomfort", Emoji: "😊"},
		{Level: 1, Label: "Mild", Description: "Noticeable but can work/function normally", Emoji: "🙂"},
		{Level: 2, Label: "Moderate", Description: "Work/activities are impaired but possible", Emoji: "😟"},
		{Level: 3, Label: "Severe", Description: "Cannot work or leave bed", Emoji: "😣"},
		{Level: 4, Label: "Emergency", Description: "Requires immediate medical attention", Emoji: "😰"},
	}
}

func SuggestedPainLocations() []string {
	return []string{"Lower Abdomen", "Back", "Pelvis", "Legs", "Chest", "Head", "Other"}
}

func SuggestedPainTypes() []string {
	return []string{"Cramping", "Sharp", "Dull Ache", "Stabbing", "Throbbing", "Burning", "Shooting"}
}

func BleedingOptions() []string {
	return []string{BleedingNone, BleedingSpotting, BleedingLight, BleedingModerate, BleedingHeavy}
}

func MoodOptions() []MoodOption {
	return []MoodOption{
		{Label: MoodGreat, Emoji: "😄"},
		{Label: MoodGood, Emoji: "🙂"},
		{Label: MoodOkay, Emoji: "😐"},
		{Label: MoodLow, Emoji: "😔"},
		{Label: MoodAnxious, Emoji: "😰"},
		{Label: MoodIrritable, Emoji: "😤"},
	}
}

// EnergyLabels is indexed by energy level minus one.
func EnergyLabels() []string {
	return []string{"Exhausted", "Tired", "Okay", "Good", "Energetic"}
}
