package adminfront

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var _ CredentialStore = &MemoryStore{}

// MemoryStore is a process-local CredentialStore. It lives for the duration
// of one client session (a CLI invocation, a test) and performs no I/O.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
}

// CredentialExpiry extracts the expiry claim from a JWT credential without
// validating it. The backend owns validation; this is only used to align
// local artifacts, like cookie lifetimes, with the token's own horizon.
func CredentialExpiry(credential string) (time.Time, bool) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
