package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type energyOption struct {
	Level int
	Label string
}

func (handler *Handler) ShowTrack(c *fiber.Ctx) error {
	form := services.NewEntryForm(handler.entries.Today())
	return handler.renderEntryForm(c, form)
}

// SubmitTrack applies the clicked widget action to the posted form state and
// saves when the action was "save". Every outcome re-renders the form with 200
// so HTMX swaps it in.
func (handler *Handler) SubmitTrack(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	today := handler.entries.Today()
	form := parseEntryForm(c, today)
	action := strings.TrimSpace(c.FormValue("action"))

	save, err := form.Apply(action, customTagFor(c, action))
	if err != nil {
		form.State = services.FormError
		form.Error = err.Error()
		return handler.renderEntryForm(c, form)
	}
	if !save {
		return handler.renderEntryForm(c, form)
	}

	if err := form.Submit(c.UserContext(), handler.entries, user.ID); err != nil {
		logger := handler.requestLogger(c).WithError(err)
		switch {
		case errors.Is(err, services.ErrWriteFailure):
			logger.Error("save entry failed")
		case services.IsValidationError(err):
			logger.Debug("entry rejected")
		default:
			logger.Error("save entry failed")
		}
		return handler.renderEntryForm(c, form)
	}

	// The submitted values stay under the banner until the delayed reload
	// fetches a fresh form.
	return handler.renderEntryForm(c, form)
}

func (handler *Handler) renderEntryForm(c *fiber.Ctx, form *services.EntryForm) error {
	data := handler.entryFormData(form)
	if isHTMX(c) {
		return handler.renderPartial(c, "entry_form", data)
	}

	if form.State == services.FormSuccess {
		data["RefreshURL"] = "/track"
		data["RefreshSeconds"] = data["ResetSeconds"]
	}
	data["Title"] = localizedPageTitle(currentMessages(c), "meta.title.track")
	return handler.render(c, "track", data)
}

func (handler *Handler) entryFormData(form *services.EntryForm) fiber.Map {
	labels := models.EnergyLabels()
	energy := make([]energyOption, 0, len(labels))
	for index, label := range labels {
		energy = append(energy, energyOption{Level: models.MinEnergyLevel + index, Label: label})
	}

	return fiber.Map{
		"Form":            form,
		"Today":           handler.entries.Today().Format(services.DayLayout),
		"PainScale":       models.PainScale(),
		"LocationOptions": withSelectedTags(models.SuggestedPainLocations(), form.Values.PainLocation),
		"TypeOptions":     withSelectedTags(models.SuggestedPainTypes(), form.Values.PainType),
		"BleedingOptions": models.BleedingOptions(),
		"MoodOptions":     models.MoodOptions(),
		"EnergyOptions":   energy,
		"ResetSeconds":    int(services.FormSuccessResetDelay / time.Second),
	}
}

// parseEntryForm rebuilds the form state carried in the hidden inputs,
// including an error banner from the previous render.
// Unparseable numbers are left unset and caught by validation on save.
func parseEntryForm(c *fiber.Ctx, today time.Time) *services.EntryForm {
	form := services.NewEntryForm(today)
	values := &form.Values

	if raw := strings.TrimSpace(c.FormValue("date")); raw != "" {
		form.SetDate(raw)
	}
	if level, err := strconv.Atoi(strings.TrimSpace(c.FormValue("pain_level"))); err == nil {
		values.PainLevel = &level
	}
	if level, err := strconv.Atoi(strings.TrimSpace(c.FormValue("energy_level"))); err == nil {
		values.EnergyLevel = level
	}
	values.PainLocation = formValues(c, "pain_location")
	values.PainType = formValues(c, "pain_type")
	values.Bleeding = strings.TrimSpace(c.FormValue("bleeding"))
	values.Mood = strings.TrimSpace(c.FormValue("mood"))
	form.SetNotes(c.FormValue("notes"))
	form.RestoreError(c.FormValue("error"))
	return form
}

func formValues(c *fiber.Ctx, key string) []string {
	raw := c.Request().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, value := range raw {
		if trimmed := strings.TrimSpace(string(value)); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func customTagFor(c *fiber.Ctx, action string) string {
	switch action {
	case "add_location":
		return c.FormValue("custom_location")
	case "add_type":
		return c.FormValue("custom_type")
	default:
		return ""
	}
}

// withSelectedTags appends custom selections after the suggestions so they stay toggleable.
func withSelectedTags(suggested []string, selected []string) []string {
	options := append([]string{}, suggested...)
	for _, tag := range selected {
		if !templateHasTag(options, tag) {
			options = append(options, tag)
		}
	}
	return options
}
