package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artemis-health/artemis/internal/db"
	"github.com/artemis-health/artemis/internal/i18n"
	"github.com/artemis-health/artemis/internal/models"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/artemis-health/artemis/internal/session"
	"github.com/artemis-health/artemis/internal/templates"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "StrongPass1"
)

type testEnv struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
	sessions *session.Manager
	auth     *services.AuthService
	entries  *services.EntryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "artemis-api-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	log := logrus.New()
	log.Out = io.Discard

	repos := db.NewRepositories(database)
	sessions, err := session.NewManager(repos.Sessions, []byte(testSecret), session.WithLogger(log))
	if err != nil {
		t.Fatalf("init session manager: %v", err)
	}
	i18nManager, err := i18n.NewManager(i18n.LangEN, i18n.Locales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	auth := services.NewAuthService(repos.Users)
	profiles := services.NewProfileService(repos.Profiles)
	entries := services.NewEntryService(repos.Entries, nil)
	handler, err := NewHandler(Dependencies{
		Auth:      auth,
		Profiles:  profiles,
		Entries:   entries,
		Dashboard: services.NewDashboardService(profiles, entries),
		Exports:   services.NewExportService(entries),
		Sessions:  sessions,
		I18n:      i18nManager,
		Templates: templates.Files(),
		Logger:    log,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.LanguageMiddleware)
	app.Use(handler.RequestContext)
	RegisterRoutes(app, handler)

	return &testEnv{
		app:      app,
		database: database,
		handler:  handler,
		sessions: sessions,
		auth:     auth,
		entries:  entries,
	}
}

func (env *testEnv) createUser(t *testing.T, email string, fullName string) models.User {
	t.Helper()

	user, err := env.auth.Signup(context.Background(), services.SignupInput{
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FullName:        fullName,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// signIn creates a user and returns its auth cookie header value.
func (env *testEnv) signIn(t *testing.T, email string, fullName string) (models.User, string) {
	t.Helper()
	user := env.createUser(t, email, fullName)
	return user, loginAndExtractAuthCookie(t, env.app, email, testPassword)
}

func (env *testEnv) do(t *testing.T, request *http.Request) *http.Response {
	t.Helper()
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func loginAndExtractAuthCookie(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	form := url.Values{
		"email":    {email},
		"password": {password},
	}
	request := formRequest(http.MethodPost, "/api/auth/login", form, "")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login status 303, got %d", response.StatusCode)
	}

	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("auth cookie is missing in login response")
	}
	return cookie.Name + "=" + cookie.Value
}

func formRequest(method string, target string, form url.Values, cookie string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return request
}

func jsonRequest(method string, target string, body string, cookie string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return request
}

func pageRequest(target string, cookie string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return request
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]any{}
	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(bytes), err)
	}
	message, _ := payload["error"].(string)
	return message
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode json response: %v", err)
	}
}
