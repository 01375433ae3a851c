// Package webapp is the server-rendered view layer: login, a user
// dashboard, and the admin user-management screens, all backed by the
// adminfront client against the remote API.
package webapp

import (
	"embed"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/django/v3"

	adminfront "github.com/vledera/go-adminfront"
	"github.com/vledera/go-adminfront/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

const csrfContextKey = "csrf_token"

// Option customizes the app construction.
type Option func(*Controller)

// WithLogger overrides the default logger.
func WithLogger(log adminfront.Logger) Option {
	return func(c *Controller) {
		c.logger = log
	}
}

// WithHTTPClient overrides the client used to reach the backend. The
// controller rewraps its transport per request with the session cookie
// store, so a bare client is fine.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithoutCSRF disables the CSRF middleware. Only for tests.
func WithoutCSRF() Option {
	return func(c *Controller) {
		c.skipCSRF = true
	}
}

// New builds the fiber application with all routes registered.
func New(cfg config.Config, opts ...Option) *fiber.App {
	controller := NewController(cfg, opts...)

	engine := django.NewFileSystem(http.FS(templatesFS), ".html")
	engine.Reload(cfg.Debug)

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: !cfg.Debug,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	if !controller.skipCSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:_csrf",
			CookieName:     cfg.Session.CookieName + "_csrf",
			CookieSecure:   cfg.Session.Secure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
			Expiration:     1 * time.Hour,
			ContextKey:     csrfContextKey,
		}))
	}

	registerRoutes(app, controller)

	return app
}

func registerRoutes(app *fiber.App, c *Controller) {
	app.Get("/login", c.LoginShow)
	app.Post("/login", c.LoginPost)
	app.Get("/logout", c.Logout)

	app.Get("/", c.Home)
	app.Post("/password", c.PasswordPost)

	app.Get("/admin", c.AdminShow)
	app.Post("/admin/register", c.RegisterPost)
	app.Post("/admin/users/:id/delete", c.DeletePost)
	app.Post("/admin/users/:id/reset", c.ResetPost)
	app.Post("/admin/users/:id/password", c.UserPasswordPost)
}
