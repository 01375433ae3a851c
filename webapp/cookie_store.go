package webapp

import (
	"time"

	"github.com/gofiber/fiber/v2"

	adminfront "github.com/vledera/go-adminfront"
	"github.com/vledera/go-adminfront/config"
)

var _ adminfront.CredentialStore = &CookieStore{}

// CookieStore is a request-scoped credential store backed by an HTTP-only
// secure cookie. The browser never sees the credential from script; the
// front-end reads it per request and forwards it to the backend as a
// bearer header.
type CookieStore struct {
	ctx    *fiber.Ctx
	name   string
	secure bool

	cached string
	loaded bool
}

func NewCookieStore(ctx *fiber.Ctx, cfg config.SessionConfig) *CookieStore {
	return &CookieStore{
		ctx:    ctx,
		name:   cfg.CookieName,
		secure: cfg.Secure,
	}
}

// Set writes the credential cookie. Its lifetime follows the token's own
// expiry when the credential is a parseable JWT.
func (s *CookieStore) Set(credential string) {
	s.cached = credential
	s.loaded = true

	expires := time.Now().Add(24 * time.Hour)
	if exp, ok := adminfront.CredentialExpiry(credential); ok {
		expires = exp
	}

	s.ctx.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    credential,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}

func (s *CookieStore) Get() (string, bool) {
	if !s.loaded {
		s.cached = s.ctx.Cookies(s.name)
		s.loaded = true
	}
	return s.cached, s.cached != ""
}

// Clear expires the cookie so the browser drops the session.
func (s *CookieStore) Clear() {
	s.cached = ""
	s.loaded = true

	s.ctx.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}
