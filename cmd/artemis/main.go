package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/artemis-health/artemis/internal/api"
	"github.com/artemis-health/artemis/internal/cli"
	"github.com/artemis-health/artemis/internal/config"
	"github.com/artemis-health/artemis/internal/db"
	"github.com/artemis-health/artemis/internal/i18n"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/artemis-health/artemis/internal/session"
	"github.com/artemis-health/artemis/internal/templates"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "artemis",
		Short:         "Artemis symptom tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCommand(), newResetPasswordCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newResetPasswordCommand() *cobra.Command {
	var email string
	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a temporary password for an account and sign it out everywhere",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer app.close()
			return cli.RunResetPasswordCommand(ctx, app.auth, app.sessions, app.log, email, cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&email, "email", "", "account email")
	_ = command.MarkFlagRequired("email")
	return command
}

// runtime holds what both commands need; close releases it in reverse order.
type runtime struct {
	cfg      config.Config
	log      *logrus.Logger
	location *time.Location
	timeout  time.Duration
	database *gorm.DB
	redis    *redis.Client

	auth      *services.AuthService
	profiles  *services.ProfileService
	entries   *services.EntryService
	dashboard *services.DashboardService
	exports   *services.ExportService
	sessions  *session.Manager
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := config.NewLogger(cfg.Logging)

	location, err := cfg.Location()
	if err != nil {
		log.WithError(err).Warn("falling back to UTC")
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, db.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	app := &runtime{cfg: cfg, log: log, location: location, timeout: timeout, database: database}
	repos := db.NewRepositories(database)

	var store session.Store = repos.Sessions
	if strings.EqualFold(cfg.Session.Store, config.SessionStoreRedis) {
		client, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("session store init failed: %w", err)
		}
		app.redis = client
		store = session.NewRedisStore(client)
	}

	secretKey, _ := config.ResolveSecretKey(cfg.SecretKey)
	sessions, err := session.NewManager(store, []byte(secretKey), session.WithLogger(log))
	if err != nil {
		app.close()
		return nil, fmt.Errorf("session manager init failed: %w", err)
	}

	app.sessions = sessions
	app.auth = services.NewAuthService(repos.Users)
	app.profiles = services.NewProfileService(repos.Profiles)
	app.entries = services.NewEntryService(repos.Entries, location)
	app.dashboard = services.NewDashboardService(app.profiles, app.entries)
	app.exports = services.NewExportService(app.entries)
	return app, nil
}

func (app *runtime) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.WithError(err).Warn("close redis failed")
		}
	}
	if err := db.Close(app.database); err != nil {
		app.log.WithError(err).Warn("close database failed")
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	i18nManager, err := i18n.NewManager(app.cfg.DefaultLanguage, i18n.Locales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	handler, err := api.NewHandler(api.Dependencies{
		Auth:           app.auth,
		Profiles:       app.profiles,
		Entries:        app.entries,
		Dashboard:      app.dashboard,
		Exports:        app.exports,
		Sessions:       app.sessions,
		I18n:           i18nManager,
		Templates:      templates.Files(),
		Logger:         app.log,
		Location:       app.location,
		CookieSecure:   app.cfg.CookieSecure,
		RequestTimeout: app.timeout,
		BaseContext:    groupCtx,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	accessLog := app.log.Writer()
	defer accessLog.Close()
	server := newServer(handler, app.cfg.CookieSecure, accessLog)

	port, _ := config.ResolvePort(app.cfg.Port)
	group.Go(func() error {
		app.log.WithFields(logrus.Fields{
			"port":     port,
			"db":       app.cfg.Database.Driver,
			"sessions": app.cfg.Session.Store,
			"tz":       app.location.String(),
		}).Info("artemis listening")
		if err := server.Listen(":" + port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.log.Info("artemis stopped")
	return nil
}

func newServer(handler *api.Handler, cookieSecure bool, accessLog io.Writer) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "Artemis",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	server.Use(recover.New())
	server.Use(logger.New(logger.Config{Output: accessLog}))
	server.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/auth/events"
		},
	}))
	server.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(templates.Static()),
		MaxAge: 3600,
	}))
	server.Use(handler.LanguageMiddleware)
	server.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))
	server.Use(handler.RequestContext)

	api.RegisterRoutes(server, handler)
	return server
}

// csrfMiddlewareConfig guards form posts. JSON clients are exempt: browsers
// cannot send a cross-site JSON body without a CORS preflight.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
		},
		KeyLookup:      "form:csrf_token",
		CookieName:     "artemis_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}
