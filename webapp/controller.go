package webapp

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	adminfront "github.com/vledera/go-adminfront"
	"github.com/vledera/go-adminfront/config"
)

// Controller renders the screens and maps every form post onto a single
// client operation. All backend state flows through the uniform Result
// envelope; the only navigation rule is that an unauthenticated result
// sends the browser back to /login.
type Controller struct {
	cfg        config.Config
	logger     adminfront.Logger
	httpClient *http.Client
	skipCSRF   bool
}

func NewController(cfg config.Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = adminfront.NopLogger{}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.cfg.Backend.Timeout}
	}

	return c
}

// gateway binds a fresh gateway to the request's cookie store. The store,
// and with it the session, lives exactly as long as the request.
func (ct *Controller) gateway(c *fiber.Ctx) *adminfront.Gateway {
	store := NewCookieStore(c, ct.cfg.Session)
	client := &http.Client{
		Timeout:   ct.httpClient.Timeout,
		Transport: ct.httpClient.Transport,
	}
	return adminfront.NewGateway(ct.cfg.Backend.BaseURL, store).
		WithLogger(ct.logger).
		WithHTTPClient(client)
}

func (ct *Controller) admin(c *fiber.Ctx) *adminfront.Admin {
	return adminfront.NewAdmin(ct.gateway(c)).WithLogger(ct.logger)
}

func (ct *Controller) csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfContextKey).(string)
	return token
}

func redirectWith(c *fiber.Ctx, path string, res adminfront.Result[struct{}]) error {
	key := "msg"
	if !res.Success {
		key = "err"
	}
	target := path
	if res.Message != "" {
		target += "?" + key + "=" + url.QueryEscape(res.Message)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func toLogin(c *fiber.Ctx) error {
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// LoginShow renders the sign-in form, or skips it for a live session.
func (ct *Controller) LoginShow(c *fiber.Ctx) error {
	if ct.gateway(c).Authenticated() {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	return c.Render("templates/login", fiber.Map{
		"csrf": ct.csrfToken(c),
		"err":  c.Query("err"),
	})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (ct *Controller) LoginPost(c *fiber.Ctx) error {
	form := new(loginForm)
	if err := c.BodyParser(form); err != nil {
		return ct.renderLoginError(c, "could not read the submitted form")
	}

	gw := ct.gateway(c)
	if err := gw.Login(c.UserContext(), form.Username, form.Password); err != nil {
		ct.logger.Info("login rejected", "username", form.Username)
		return ct.renderLoginError(c, adminfront.ErrorMessage(err))
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (ct *Controller) renderLoginError(c *fiber.Ctx, message string) error {
	return c.Render("templates/login", fiber.Map{
		"csrf": ct.csrfToken(c),
		"err":  message,
	})
}

// Logout revokes the session. The cookie is cleared even when the backend
// call fails.
func (ct *Controller) Logout(c *fiber.Ctx) error {
	ct.gateway(c).Revoke(c.UserContext())
	return toLogin(c)
}

// Home is the user dashboard: identity, last login, self-service password
// change.
func (ct *Controller) Home(c *fiber.Ctx) error {
	gw := ct.gateway(c)

	principal, err := gw.Whoami(c.UserContext())
	if err != nil {
		if adminfront.IsUnauthenticated(err) {
			return toLogin(c)
		}
		return c.Render("templates/home", fiber.Map{
			"csrf": ct.csrfToken(c),
			"err":  adminfront.ErrorMessage(err),
		})
	}

	return c.Render("templates/home", fiber.Map{
		"csrf":      ct.csrfToken(c),
		"username":  principal.Username,
		"isAdmin":   principal.IsAdmin,
		"lastLogin": formatTime(principal.LastLoginAt),
		"msg":       c.Query("msg"),
		"err":       c.Query("err"),
	})
}

type passwordForm struct {
	NewPassword string `form:"new_password"`
	Confirm     string `form:"confirm_password"`
}

// PasswordPost changes the password of the logged-in user. Confirmation
// matching is checked here; no call is made when it fails.
func (ct *Controller) PasswordPost(c *fiber.Ctx) error {
	form := new(passwordForm)
	if err := c.BodyParser(form); err != nil {
		return redirectWith(c, "/", adminfront.Fail[struct{}](err))
	}

	if form.NewPassword != form.Confirm {
		return c.Redirect("/?err="+url.QueryEscape("passwords do not match"), fiber.StatusSeeOther)
	}

	err := ct.gateway(c).ChangePassword(c.UserContext(), form.NewPassword)
	if adminfront.IsUnauthenticated(err) {
		return toLogin(c)
	}

	return redirectWith(c, "/", adminfront.Done(err, "password changed"))
}

// AdminShow renders the user table. Non-admin principals are bounced home;
// the backend stays authoritative on every request, nothing is cached from
// login time.
func (ct *Controller) AdminShow(c *fiber.Ctx) error {
	gw := ct.gateway(c)

	principal, err := gw.Whoami(c.UserContext())
	if err != nil {
		if adminfront.IsUnauthenticated(err) {
			return toLogin(c)
		}
		return redirectWith(c, "/", adminfront.Fail[struct{}](err))
	}
	if !principal.IsAdmin {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	users, listErr := adminfront.NewAdmin(gw).ListUsers(c.UserContext())
	if listErr != nil {
		if adminfront.IsUnauthenticated(listErr) {
			return toLogin(c)
		}
		return c.Render("templates/admin", fiber.Map{
			"csrf":     ct.csrfToken(c),
			"username": principal.Username,
			"err":      adminfront.ErrorMessage(listErr),
		})
	}

	rows := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		rows = append(rows, fiber.Map{
			"id":        user.ID,
			"username":  user.Username,
			"lastLogin": formatTime(user.LastLoginAt),
		})
	}

	return c.Render("templates/admin", fiber.Map{
		"csrf":     ct.csrfToken(c),
		"username": principal.Username,
		"users":    rows,
		"msg":      c.Query("msg"),
		"err":      c.Query("err"),
	})
}

type registerForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Confirm  string `form:"confirm_password"`
	IsAdmin  bool   `form:"is_admin"`
}

func (ct *Controller) RegisterPost(c *fiber.Ctx) error {
	form := new(registerForm)
	if err := c.BodyParser(form); err != nil {
		return redirectWith(c, "/admin", adminfront.Fail[struct{}](err))
	}

	if form.Password != form.Confirm {
		return c.Redirect("/admin?err="+url.QueryEscape("passwords do not match"), fiber.StatusSeeOther)
	}

	err := ct.admin(c).Register(c.UserContext(), form.Username, form.Password, form.IsAdmin)
	if adminfront.IsUnauthenticated(err) {
		return toLogin(c)
	}

	return redirectWith(c, "/admin", adminfront.Done(err, "user "+form.Username+" registered"))
}

func (ct *Controller) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return redirectWith(c, "/admin", adminfront.Fail[struct{}](err))
	}

	err = ct.admin(c).DeleteUser(c.UserContext(), int64(id))
	if adminfront.IsUnauthenticated(err) {
		return toLogin(c)
	}

	return redirectWith(c, "/admin", adminfront.Done(err, "user deleted"))
}

func (ct *Controller) ResetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return redirectWith(c, "/admin", adminfront.Fail[struct{}](err))
	}

	err = ct.admin(c).ResetPassword(c.UserContext(), int64(id))
	if adminfront.IsUnauthenticated(err) {
		return toLogin(c)
	}

	return redirectWith(c, "/admin", adminfront.Done(err, "password reset"))
}

type userPasswordForm struct {
	NewPassword string `form:"new_password"`
}

func (ct *Controller) UserPasswordPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return redirectWith(c, "/admin", adminfront.Fail[struct{}](err))
	}

	form := new(userPasswordForm)
	if err := c.BodyParser(form); err != nil {
		return redirectWith(c, "/admin", adminfront.Fail[struct{}](err))
	}

	err = ct.admin(c).ChangePassword(c.UserContext(), int64(id), form.NewPassword)
	if adminfront.IsUnauthenticated(err) {
		return toLogin(c)
	}

	return redirectWith(c, "/admin", adminfront.Done(err, "password changed"))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
