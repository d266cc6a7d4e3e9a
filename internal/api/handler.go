package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/artemis-health/artemis/internal/i18n"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/artemis-health/artemis/internal/session"
	"github.com/sirupsen/logrus"
)

const defaultRequestTimeout = 10 * time.Second

type Handler struct {
	auth      *services.AuthService
	profiles  *services.ProfileService
	entries   *services.EntryService
	dashboard *services.DashboardService
	exports   *services.ExportService
	sessions  *session.Manager

	i18n           *i18n.Manager
	templates      map[string]*template.Template
	partials       map[string]*template.Template
	log            *logrus.Logger
	location       *time.Location
	cookieSecure   bool
	requestTimeout time.Duration
	baseContext    context.Context
	loginLimiter   *failureWindow
	now            func() time.Time
}

// Dependencies are the collaborators a Handler serves requests with.
type Dependencies struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Entries   *services.EntryService
	Dashboard *services.DashboardService
	Exports   *services.ExportService
	Sessions  *session.Manager
	I18n      *i18n.Manager
	Templates fs.FS
	Logger    *logrus.Logger
	Location  *time.Location

	CookieSecure   bool
	RequestTimeout time.Duration
	// BaseContext parents every request context; cancelling it aborts in-flight work.
	BaseContext context.Context
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Auth == nil || deps.Profiles == nil || deps.Entries == nil || deps.Dashboard == nil || deps.Exports == nil {
		return nil, errors.New("services are required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if deps.Templates == nil {
		return nil, errors.New("templates are required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = defaultRequestTimeout
	}
	if deps.BaseContext == nil {
		deps.BaseContext = context.Background()
	}

	funcMap := newTemplateFuncMap()
	templates, err := parsePageTemplates(deps.Templates, funcMap, pageTemplates, partialTemplates)
	if err != nil {
		return nil, err
	}
	partials, err := parsePartialTemplates(deps.Templates, funcMap, partialTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	return &Handler{
		auth:           deps.Auth,
		profiles:       deps.Profiles,
		entries:        deps.Entries,
		dashboard:      deps.Dashboard,
		exports:        deps.Exports,
		sessions:       deps.Sessions,
		i18n:           deps.I18n,
		templates:      templates,
		partials:       partials,
		log:            deps.Logger,
		location:       deps.Location,
		cookieSecure:   deps.CookieSecure,
		requestTimeout: deps.RequestTimeout,
		baseContext:    deps.BaseContext,
		loginLimiter:   newFailureWindow(loginAttemptsLimit, loginAttemptsWindow),
		now:            time.Now,
	}, nil
}
