package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/artemis-health/artemis/internal/models"
)

func TestToggleTag(t *testing.T) {
	selection := []string{"A"}

	selection = ToggleTag(selection, "B")
	if !reflect.DeepEqual(selection, []string{"A", "B"}) {
		t.Fatalf("expected [A B], got %v", selection)
	}
	selection = ToggleTag(selection, "B")
	if !reflect.DeepEqual(selection, []string{"A"}) {
		t.Fatalf("expected [A], got %v", selection)
	}
	selection = ToggleTag(selection, "A")
	if len(selection) != 0 {
		t.Fatalf("expected empty selection, got %v", selection)
	}
}

func TestToggleTagDoesNotAliasInput(t *testing.T) {
	original := []string{"A", "B", "C"}
	_ = ToggleTag(original, "B")
	if !reflect.DeepEqual(original, []string{"A", "B", "C"}) {
		t.Fatalf("expected input to stay unchanged, got %v", original)
	}
}

func TestEntryFormSingleSelectKeepsSelectionAndClears(t *testing.T) {
	form := NewEntryForm(mustParseDay(t, "2024-03-10"))

	if err := form.SelectMood(models.MoodLow); err != nil {
		t.Fatalf("select mood: %v", err)
	}
	if err := form.SelectMood(models.MoodLow); err != nil {
		t.Fatalf("reselect mood: %v", err)
	}
	if form.Values.Mood != models.MoodLow {
		t.Fatalf("expected re-selecting to keep %q, got %q", models.MoodLow, form.Values.Mood)
	}
	form.ClearMood()
	if form.Values.Mood != "" {
		t.Fatalf("expected mood to be cleared, got %q", form.Values.Mood)
	}

	if err := form.SelectBleeding("Gushing"); !errors.Is(err, ErrInvalidBleeding) {
		t.Fatalf("expected ErrInvalidBleeding, got %v", err)
	}
}

func TestEntryFormApplyActions(t *testing.T) {
	form := NewEntryForm(mustParseDay(t, "2024-03-10"))

	steps := []struct {
		action string
		custom string
	}{
		{action: "toggle_location:Back"},
		{action: "toggle_location:Pelvis"},
		{action: "toggle_location:Back"},
		{action: "add_location", custom: "  Left   knee "},
		{action: "add_location", custom: "left knee"},
		{action: "toggle_type:Sharp"},
		{action: "select_bleeding:Light"},
		{action: "select_mood:Okay"},
		{action: "clear_mood"},
		{action: "pain:3"},
	}
	for _, step := range steps {
		save, err := form.Apply(step.action, step.custom)
		if err != nil {
			t.Fatalf("apply %q: %v", step.action, err)
		}
		if save {
			t.Fatalf("expected %q not to request a save", step.action)
		}
	}

	if !reflect.DeepEqual(form.Values.PainLocation, []string{"Pelvis", "Left knee"}) {
		t.Fatalf("unexpected locations %v", form.Values.PainLocation)
	}
	if !reflect.DeepEqual(form.Values.PainType, []string{"Sharp"}) {
		t.Fatalf("unexpected types %v", form.Values.PainType)
	}
	if form.Values.Bleeding != "Light" || form.Values.Mood != "" {
		t.Fatalf("unexpected single selects bleeding=%q mood=%q", form.Values.Bleeding, form.Values.Mood)
	}
	if form.Values.PainLevel == nil || *form.Values.PainLevel != 3 {
		t.Fatalf("expected pain level 3, got %v", form.Values.PainLevel)
	}

	if save, err := form.Apply("save", ""); err != nil || !save {
		t.Fatalf("expected save action, got save=%v err=%v", save, err)
	}
	if _, err := form.Apply("explode", ""); !errors.Is(err, ErrUnknownFormAction) {
		t.Fatalf("expected ErrUnknownFormAction, got %v", err)
	}
	if _, err := form.Apply("pain:9", ""); !errors.Is(err, ErrInvalidPainLevel) {
		t.Fatalf("expected ErrInvalidPainLevel, got %v", err)
	}
}

func TestEntryFormSubmitRequiresPainLevel(t *testing.T) {
	repo := &stubEntryRepository{}
	service := NewEntryService(repo, nil)
	form := NewEntryForm(service.Today())

	if form.CanSubmit() {
		t.Fatal("expected submit to be disabled without pain level")
	}
	err := form.Submit(context.Background(), service, 1)
	if !errors.Is(err, ErrPainLevelRequired) {
		t.Fatalf("expected ErrPainLevelRequired, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no insert, got %d", len(repo.created))
	}
	if form.State != FormEditing {
		t.Fatalf("expected form to stay editing, got %s", form.State)
	}
}

func TestEntryFormSubmitSuccessUsesDefaults(t *testing.T) {
	repo := &stubEntryRepository{}
	service := NewEntryService(repo, nil)
	form := NewEntryForm(service.Today())
	if err := form.SetPain(2); err != nil {
		t.Fatalf("set pain: %v", err)
	}

	if err := form.Submit(context.Background(), service, 4); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if form.State != FormSuccess {
		t.Fatalf("expected success state, got %s", form.State)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.EnergyLevel != 3 || len(stored.PainLocation) != 0 || len(stored.PainType) != 0 {
		t.Fatalf("expected defaults energy=3 and empty tags, got %+v", stored)
	}

	if form.Values.PainLevel == nil || *form.Values.PainLevel != 2 {
		t.Fatalf("expected submitted values to stay until the form reloads, got %+v", form.Values)
	}
}

func TestEntryFormSubmitFailureSurfacesRawMessageAndClearsOnRetry(t *testing.T) {
	repo := &stubEntryRepository{createErr: errors.New("disk full")}
	service := NewEntryService(repo, nil)
	form := NewEntryForm(service.Today())
	_ = form.SetPain(1)
	form.ToggleLocation("Back")

	if err := form.Submit(context.Background(), service, 1); !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if form.State != FormError || form.Error != "write failure: disk full" {
		t.Fatalf("expected error state with raw message, got %s %q", form.State, form.Error)
	}
	if !reflect.DeepEqual(form.Values.PainLocation, []string{"Back"}) {
		t.Fatalf("expected field values to be kept, got %v", form.Values.PainLocation)
	}

	repo.createErr = nil
	if err := form.Submit(context.Background(), service, 1); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if form.Error != "" || form.State != FormSuccess {
		t.Fatalf("expected error to be dismissed on retry, got %s %q", form.State, form.Error)
	}
}

func TestEntryFormSetDateTrimsInput(t *testing.T) {
	form := NewEntryForm(mustParseDay(t, "2024-03-01"))
	form.SetDate("  2024-02-28 ")
	form.SetNotes("cramps after lunch")

	if form.Values.Date != "2024-02-28" {
		t.Fatalf("expected trimmed date, got %q", form.Values.Date)
	}
	if form.Values.Notes != "cramps after lunch" {
		t.Fatalf("expected notes to be kept, got %q", form.Values.Notes)
	}
}

func TestToggleTagIgnoresCase(t *testing.T) {
	selection := ToggleTag([]string{"Back", "Head"}, "back")
	if !reflect.DeepEqual(selection, []string{"Head"}) {
		t.Fatalf("expected Back to be removed, got %v", selection)
	}
	if selection = ToggleTag(selection, "HEAD"); len(selection) != 0 {
		t.Fatalf("expected empty selection, got %v", selection)
	}
}

func TestEntryFormRestoredErrorSurvivesWidgetActions(t *testing.T) {
	form := NewEntryForm(mustParseDay(t, "2024-03-01"))
	form.RestoreError("  date cannot be in the future ")
	if form.State != FormError || form.Error != "date cannot be in the future" {
		t.Fatalf("expected restored error, got %s %q", form.State, form.Error)
	}

	if _, err := form.Apply("toggle_location:Back", ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if form.Error != "date cannot be in the future" {
		t.Fatalf("expected widget action to keep the error, got %q", form.Error)
	}

	form.RestoreError("   ")
	if form.Error == "" {
		t.Fatal("expected blank input to leave the error alone")
	}

	_ = form.SetPain(1)
	form.SetDate("2024-02-29")
	if err := form.Submit(context.Background(), NewEntryService(&stubEntryRepository{}, nil), 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if form.Error != "" {
		t.Fatalf("expected submit to clear the error, got %q", form.Error)
	}
}
