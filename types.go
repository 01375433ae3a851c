package adminfront

import (
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore holds the session credential for one client session.
// Implementations own the credential lifecycle: set once at login, cleared
// on logout or on an authentication failure reported by the backend.
type CredentialStore interface {
	Set(credential string)
	Get() (string, bool)
	Clear()
}

// Principal is the authenticated identity as reported by the backend.
// It is re-fetched on every Whoami call, never cached, since the backend is
// the source of truth for fields like last login.
type Principal struct {
	ID          int64
	Username    string
	IsAdmin     bool
	LastLoginAt *time.Time
}

// UserRecord is an admin-visible user row. The backend owns the data;
// callers only hold a transient, render-scoped copy.
type UserRecord struct {
	ID          int64
	Username    string
	LastLoginAt *time.Time
}

// NopLogger discards everything. Useful for tests and for callers that
// wire their own request logging.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ADMINFRONT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ADMINFRONT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ADMINFRONT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
