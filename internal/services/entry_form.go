package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

// FormSuccessResetDelay is how long the success banner stays before the form resets.
const FormSuccessResetDelay = 2 * time.Second

var ErrUnknownFormAction = errors.New("unknown form action")

type FormState string

const (
	FormEditing    FormState = "editing"
	FormSubmitting FormState = "submitting"
	FormSuccess    FormState = "success"
	FormError      FormState = "error"
)

type EntryWriter interface {
	Create(ctx context.Context, userID uint, input EntryInput) (models.SymptomEntry, error)
}

// FormValues is what the form carries between requests.
type FormValues struct {
	Date         string
	PainLevel    *int
	PainLocation []string
	PainType     []string
	Bleeding     string
	Mood         string
	EnergyLevel  int
	Notes        string
}

func (values FormValues) Input() EntryInput {
	energy := values.EnergyLevel
	var pain *int
	if values.PainLevel != nil {
		level := *values.PainLevel
		pain = &level
	}
	return EntryInput{
		Date:         values.Date,
		PainLevel:    pain,
		PainLocation: slices.Clone(values.PainLocation),
		PainType:     slices.Clone(values.PainType),
		Bleeding:     values.Bleeding,
		Mood:         values.Mood,
		EnergyLevel:  &energy,
		Notes:        values.Notes,
	}
}

type EntryForm struct {
	State  FormState
	Values FormValues
	Error  string
}

func NewEntryForm(today time.Time) *EntryForm {
	return &EntryForm{
		State: FormEditing,
		Values: FormValues{
			Date:         today.Format(DayLayout),
			PainLocation: []string{},
			PainType:     []string{},
			EnergyLevel:  models.DefaultEnergyLevel,
		},
	}
}

// RestoreError brings back a banner carried from the previous render. Only
// Submit clears it.
func (form *EntryForm) RestoreError(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	form.State = FormError
	form.Error = message
}

func (form *EntryForm) CanSubmit() bool {
	return form.Values.PainLevel != nil && form.State != FormSubmitting
}

func (form *EntryForm) ToggleLocation(tag string) {
	form.Values.PainLocation = ToggleTag(form.Values.PainLocation, tag)
}

func (form *EntryForm) ToggleType(tag string) {
	form.Values.PainType = ToggleTag(form.Values.PainType, tag)
}

// SelectBleeding keeps the label selected when it is already active.
func (form *EntryForm) SelectBleeding(label string) error {
	if !slices.Contains(models.BleedingOptions(), label) {
		return ErrInvalidBleeding
	}
	form.Values.Bleeding = label
	return nil
}

func (form *EntryForm) ClearBleeding() {
	form.Values.Bleeding = ""
}

func (form *EntryForm) SelectMood(label string) error {
	if !isMoodOption(label) {
		return ErrInvalidMood
	}
	form.Values.Mood = label
	return nil
}

func (form *EntryForm) ClearMood() {
	form.Values.Mood = ""
}

func (form *EntryForm) SetPain(level int) error {
	if level < models.MinPainLevel || level > models.MaxPainLevel {
		return ErrInvalidPainLevel
	}
	form.Values.PainLevel = &level
	return nil
}

func (form *EntryForm) SetEnergy(level int) error {
	if level < models.MinEnergyLevel || level > models.MaxEnergyLevel {
		return ErrInvalidEnergyLevel
	}
	form.Values.EnergyLevel = level
	return nil
}

func (form *EntryForm) SetDate(raw string) {
	form.Values.Date = strings.TrimSpace(raw)
}

func (form *EntryForm) SetNotes(notes string) {
	form.Values.Notes = notes
}

// Apply runs one widget action. It reports whether the action asked for a save.
// Tag actions carry the tag after the colon; add_location and add_type read
// the tag from custom.
func (form *EntryForm) Apply(action string, custom string) (bool, error) {
	name, argument, _ := strings.Cut(strings.TrimSpace(action), ":")
	argument = strings.TrimSpace(argument)

	switch name {
	case "save":
		return true, nil
	case "toggle_location":
		form.ToggleLocation(argument)
	case "toggle_type":
		form.ToggleType(argument)
	case "add_location":
		form.addTag(&form.Values.PainLocation, custom)
	case "add_type":
		form.addTag(&form.Values.PainType, custom)
	case "select_bleeding":
		return false, form.SelectBleeding(argument)
	case "clear_bleeding":
		form.ClearBleeding()
	case "select_mood":
		return false, form.SelectMood(argument)
	case "clear_mood":
		form.ClearMood()
	case "pain":
		level, err := strconv.Atoi(argument)
		if err != nil {
			return false, ErrInvalidPainLevel
		}
		return false, form.SetPain(level)
	default:
		return false, ErrUnknownFormAction
	}
	return false, nil
}

func (form *EntryForm) addTag(tags *[]string, raw string) {
	tag := strings.Join(strings.Fields(raw), " ")
	if tag == "" || containsFold(*tags, tag) {
		return
	}
	*tags = append(*tags, tag)
}

// Submit clears the previous error, then saves through writer. Without a pain
// level nothing is written and the form stays editable.
func (form *EntryForm) Submit(ctx context.Context, writer EntryWriter, userID uint) error {
	form.Error = ""
	if form.Values.PainLevel == nil {
		form.State = FormEditing
		form.Error = ErrPainLevelRequired.Error()
		return ErrPainLevelRequired
	}

	form.State = FormSubmitting
	if _, err := writer.Create(ctx, userID, form.Values.Input()); err != nil {
		form.State = FormError
		form.Error = err.Error()
		return err
	}
	form.State = FormSuccess
	return nil
}

// ToggleTag adds tag when absent and removes it when present, ignoring case.
func ToggleTag(selection []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return selection
	}
	index := slices.IndexFunc(selection, func(selected string) bool {
		return strings.EqualFold(selected, tag)
	})
	if index >= 0 {
		return slices.Delete(slices.Clone(selection), index, index+1)
	}
	return append(slices.Clone(selection), tag)
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
