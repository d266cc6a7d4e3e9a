package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/artemis-health/artemis/internal/services"
)

func trackRequest(form url.Values, authCookie string) *http.Request {
	request := formRequest(http.MethodPost, "/track", form, authCookie)
	request.Header.Set("HX-Request", "true")
	return request
}

func TestShowTrackRendersFreshForm(t *testing.T) {
	env := newTestEnv(t)
	_, authCookie := env.signIn(t, "track@example.com", "")

	response := env.do(t, pageRequest("/track", authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	rendered := readBody(t, response)
	today := env.entries.Today().Format(services.DayLayout)
	if !strings.Contains(rendered, `value="`+today+`"`) {
		t.Fatalf("expected date input defaulting to %s", today)
	}
	if !strings.Contains(rendered, `value="save" class="button" disabled`) {
		t.Fatal("expected save to be disabled without a pain level")
	}
}

func TestSubmitTrackAppliesWidgetActions(t *testing.T) {
	env := newTestEnv(t)
	_, authCookie := env.signIn(t, "widgets@example.com", "")

	response := env.do(t, trackRequest(url.Values{"action": {"pain:3"}}, authCookie))
	rendered := readBody(t, response)
	if strings.Contains(rendered, "<html") {
		t.Fatal("expected a partial for htmx requests")
	}
	if !strings.Contains(rendered, `name="pain_level" value="3"`) {
		t.Fatal("expected the pain level to be carried in the form")
	}
	if strings.Contains(rendered, `value="save" class="button" disabled`) {
		t.Fatal("expected save to be enabled once a pain level is chosen")
	}

	custom := env.do(t, trackRequest(url.Values{
		"pain_level":      {"3"},
		"pain_location":   {"Back"},
		"action":          {"add_location"},
		"custom_location": {"  Left   hip "},
	}, authCookie))
	rendered = readBody(t, custom)
	for _, marker := range []string{
		`name="pain_location" value="Back"`,
		`name="pain_location" value="Left hip"`,
		`value="toggle_location:Left hip"`,
	} {
		if !strings.Contains(rendered, marker) {
			t.Fatalf("expected form to contain %q", marker)
		}
	}

	toggled := env.do(t, trackRequest(url.Values{
		"pain_level":    {"3"},
		"pain_location": {"Back", "Left hip"},
		"action":        {"toggle_location:Back"},
	}, authCookie))
	rendered = readBody(t, toggled)
	if strings.Contains(rendered, `name="pain_location" value="Back"`) {
		t.Fatal("expected Back to be toggled off")
	}

	bleeding := env.do(t, trackRequest(url.Values{"action": {"select_bleeding:Heavy"}}, authCookie))
	if rendered := readBody(t, bleeding); !strings.Contains(rendered, `name="bleeding" value="Heavy"`) {
		t.Fatal("expected bleeding to be selected")
	}

	cleared := env.do(t, trackRequest(url.Values{"bleeding": {"Heavy"}, "action": {"clear_bleeding"}}, authCookie))
	if rendered := readBody(t, cleared); !strings.Contains(rendered, `name="bleeding" value=""`) {
		t.Fatal("expected bleeding to be cleared")
	}
}

func TestSubmitTrackRejectsUnknownLabel(t *testing.T) {
	env := newTestEnv(t)
	_, authCookie := env.signIn(t, "unknown@example.com", "")

	response := env.do(t, trackRequest(url.Values{"action": {"select_mood:Ecstatic"}}, authCookie))
	rendered := readBody(t, response)
	if !strings.Contains(rendered, "Error: invalid mood option") {
		t.Fatal("expected invalid mood error")
	}
}

func TestSubmitTrackSavesEntry(t *testing.T) {
	env := newTestEnv(t)
	user, authCookie := env.signIn(t, "save@example.com", "")

	response := env.do(t, trackRequest(url.Values{
		"date":          {env.entries.Today().Format(services.DayLayout)},
		"pain_level":    {"2"},
		"pain_type":     {"Cramping"},
		"mood":          {"Okay"},
		"energy_level":  {"4"},
		"notes":         {"after lunch"},
		"action":        {"save"},
	}, authCookie))
	rendered := readBody(t, response)
	if !strings.Contains(rendered, "Symptoms saved successfully!") {
		t.Fatal("expected success banner")
	}
	if !strings.Contains(rendered, `hx-trigger="load delay:2s"`) {
		t.Fatal("expected delayed form reset")
	}
	if !strings.Contains(rendered, `name="pain_level" value="2"`) {
		t.Fatal("expected the submitted values to stay under the success banner")
	}

	entries, err := env.entries.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(entries))
	}
	if entries[0].PainLevel != 2 || entries[0].EnergyLevel != 4 || entries[0].Notes != "after lunch" {
		t.Fatalf("unexpected stored entry %#v", entries[0])
	}
}

func TestSubmitTrackFullPageSuccessRefreshes(t *testing.T) {
	env := newTestEnv(t)
	_, authCookie := env.signIn(t, "fullpage@example.com", "")

	response := env.do(t, formRequest(http.MethodPost, "/track", url.Values{
		"pain_level": {"1"},
		"action":     {"save"},
	}, authCookie))
	rendered := readBody(t, response)
	if !strings.Contains(rendered, `http-equiv="refresh" content="2;url=/track"`) {
		t.Fatal("expected meta refresh back to the form")
	}
}

func TestSubmitTrackValidationErrorsKeepValues(t *testing.T) {
	env := newTestEnv(t)
	user, authCookie := env.signIn(t, "invalid@example.com", "")

	tomorrow := env.entries.Today().Add(24 * time.Hour).Format(services.DayLayout)
	future := env.do(t, trackRequest(url.Values{
		"date":       {tomorrow},
		"pain_level": {"2"},
		"notes":      {"keep me"},
		"action":     {"save"},
	}, authCookie))
	rendered := readBody(t, future)
	if !strings.Contains(rendered, "Error: date cannot be in the future") {
		t.Fatal("expected future date error")
	}
	if !strings.Contains(rendered, "keep me") {
		t.Fatal("expected notes to survive the error")
	}

	missing := env.do(t, trackRequest(url.Values{"action": {"save"}}, authCookie))
	if rendered := readBody(t, missing); !strings.Contains(rendered, "Error: pain level is required") {
		t.Fatal("expected missing pain level error")
	}

	entries, err := env.entries.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing stored, got %d entries", len(entries))
	}
}

func TestSubmitTrackErrorBannerSurvivesWidgetActions(t *testing.T) {
	env := newTestEnv(t)
	_, authCookie := env.signIn(t, "banner@example.com", "")

	tomorrow := env.entries.Today().Add(24 * time.Hour).Format(services.DayLayout)
	failed := env.do(t, trackRequest(url.Values{
		"date":       {tomorrow},
		"pain_level": {"2"},
		"action":     {"save"},
	}, authCookie))
	rendered := readBody(t, failed)
	if !strings.Contains(rendered, `name="error" value="date cannot be in the future"`) {
		t.Fatal("expected the error to be carried in the form")
	}

	toggled := env.do(t, trackRequest(url.Values{
		"date":       {tomorrow},
		"pain_level": {"2"},
		"error":      {"date cannot be in the future"},
		"action":     {"toggle_location:Back"},
	}, authCookie))
	rendered = readBody(t, toggled)
	if !strings.Contains(rendered, "Error: date cannot be in the future") {
		t.Fatal("expected the banner to stay after a widget action")
	}
	if !strings.Contains(rendered, `name="pain_location" value="Back"`) {
		t.Fatal("expected the toggle to apply")
	}

	retried := env.do(t, trackRequest(url.Values{
		"date":       {env.entries.Today().Format(services.DayLayout)},
		"pain_level": {"2"},
		"error":      {"date cannot be in the future"},
		"action":     {"save"},
	}, authCookie))
	rendered = readBody(t, retried)
	if strings.Contains(rendered, "Error:") {
		t.Fatal("expected the next submit to clear the banner")
	}
	if !strings.Contains(rendered, "Symptoms saved successfully!") {
		t.Fatal("expected the retry to succeed")
	}
}
