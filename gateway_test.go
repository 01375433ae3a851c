package adminfront_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminfront "github.com/vledera/go-adminfront"
)

type stubBackend struct {
	*httptest.Server
	requests atomic.Int64
}

func newStubBackend(t *testing.T, handler http.HandlerFunc) *stubBackend {
	t.Helper()

	backend := &stubBackend{}
	backend.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backend.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(backend.Close)

	return backend
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func newTestGateway(backend *stubBackend) (*adminfront.Gateway, *adminfront.MemoryStore) {
	store := adminfront.NewMemoryStore()
	gw := adminfront.NewGateway(backend.URL, store).WithLogger(adminfront.NopLogger{})
	return gw, store
}

func TestLoginStoresCredential(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		payload := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "alice", payload["username"])
		require.Equal(t, "correct", payload["password"])

		writeJSON(w, 200, map[string]any{
			"success": true,
			"message": "Login successful",
			"user_id": 1,
			"token":   "abc",
		})
	})

	gw, store := newTestGateway(backend)

	require.NoError(t, gw.Login(context.Background(), "alice", "correct"))

	credential, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc", credential)
	assert.True(t, gw.Authenticated())
}

func TestLoginRejectionNeverMutatesStore(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    map[string]any
		message string
	}{
		{
			name:    "invalid credentials",
			status:  401,
			body:    map[string]any{"success": false, "message": "Invalid credentials or empty password"},
			message: "Invalid credentials or empty password",
		},
		{
			name:    "unknown user",
			status:  404,
			body:    map[string]any{"message": "User not found"},
			message: "User not found",
		},
		{
			name:    "reset required",
			status:  403,
			body:    map[string]any{"message": "Account not secure. Password reset required."},
			message: "Account not secure. Password reset required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			gw, store := newTestGateway(backend)

			err := gw.Login(context.Background(), "alice", "wrong")
			require.Error(t, err)
			assert.Equal(t, tt.message, adminfront.ErrorMessage(err))

			_, ok := store.Get()
			assert.False(t, ok)
			assert.False(t, gw.Authenticated())
		})
	}
}

func TestLoginValidatesInputLocally(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid local input")
	})

	gw, _ := newTestGateway(backend)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "alice", password: ""},
		{name: "both empty", username: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gw.Login(context.Background(), tt.username, tt.password)
			assert.True(t, adminfront.IsValidation(err))
		})
	}

	assert.Equal(t, int64(0), backend.requests.Load())
}

func TestWhoamiFetchesFreshPrincipal(t *testing.T) {
	lastLogin := "2024-10-02 15:04:05"
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/user-info", r.URL.Path)
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		writeJSON(w, 200, map[string]any{
			"username":  "alice",
			"isAdmin":   false,
			"lastLogin": lastLogin,
		})
	})

	gw, store := newTestGateway(backend)
	store.Set("abc")

	principal, err := gw.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Username)
	assert.False(t, principal.IsAdmin)
	require.NotNil(t, principal.LastLoginAt)
	assert.Equal(t, "2024-10-02 15:04:05", principal.LastLoginAt.Format("2006-01-02 15:04:05"))

	// Fresh read every call, no caching.
	_, err = gw.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.requests.Load())
}

func TestWhoamiWithoutCredentialMakesNoNetworkCall(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected while anonymous")
	})

	gw, _ := newTestGateway(backend)

	_, err := gw.Whoami(context.Background())
	assert.True(t, adminfront.IsUnauthenticated(err))
	assert.Equal(t, int64(0), backend.requests.Load())
}

func TestWhoamiOn401ClearsCredential(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "Invalid or expired token"})
	})

	gw, store := newTestGateway(backend)
	store.Set("stale")

	_, err := gw.Whoami(context.Background())
	assert.True(t, adminfront.IsUnauthenticated(err))

	_, ok := store.Get()
	assert.False(t, ok)
	assert.False(t, gw.Authenticated())
}

func TestRevokeClearsStoreEvenWhenRemoteFails(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]any{"message": "boom"})
	})

	gw, store := newTestGateway(backend)
	store.Set("abc")

	gw.Revoke(context.Background())

	_, ok := store.Get()
	assert.False(t, ok)
	assert.Equal(t, int64(1), backend.requests.Load())
}

func TestRevokeClearsStoreWhenBackendUnreachable(t *testing.T) {
	store := adminfront.NewMemoryStore()
	store.Set("abc")

	gw := adminfront.NewGateway("http://127.0.0.1:1", store).WithLogger(adminfront.NopLogger{})
	gw.Revoke(context.Background())

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestRevokeWhileAnonymousSkipsRemoteCall(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected while anonymous")
	})

	gw, _ := newTestGateway(backend)
	gw.Revoke(context.Background())

	assert.Equal(t, int64(0), backend.requests.Load())
}

func TestChangePasswordSendsNewPassword(t *testing.T) {
	var bodies []map[string]string
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/change_password", r.URL.Path)

		payload := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		bodies = append(bodies, payload)

		writeJSON(w, 200, map[string]any{"message": "Password changed successfully"})
	})

	gw, store := newTestGateway(backend)
	store.Set("abc")

	// Back-to-back changes are independent calls with no ordering coupling
	// beyond request/response pairing.
	require.NoError(t, gw.ChangePassword(context.Background(), "newpass"))
	require.NoError(t, gw.ChangePassword(context.Background(), "newpass2"))

	require.Len(t, bodies, 2)
	assert.Equal(t, "newpass", bodies[0]["new_password"])
	assert.Equal(t, "newpass2", bodies[1]["new_password"])
}

func TestChangePasswordValidatesLocally(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty password")
	})

	gw, store := newTestGateway(backend)
	store.Set("abc")

	err := gw.ChangePassword(context.Background(), "")
	assert.True(t, adminfront.IsValidation(err))
	assert.Equal(t, int64(0), backend.requests.Load())
}

func TestLastLogin(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/last_login", r.URL.Path)
		writeJSON(w, 200, map[string]any{"last_login": "2024-10-02 15:04:05"})
	})

	gw, store := newTestGateway(backend)
	store.Set("abc")

	got, err := gw.LastLogin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-10-02 15:04:05", got.Format("2006-01-02 15:04:05"))
}

func TestGatewayTransportError(t *testing.T) {
	store := adminfront.NewMemoryStore()
	store.Set("abc")

	gw := adminfront.NewGateway("http://127.0.0.1:1", store).WithLogger(adminfront.NopLogger{})

	_, err := gw.Whoami(context.Background())
	require.Error(t, err)
	assert.False(t, adminfront.IsUnauthenticated(err))
	assert.NotEmpty(t, adminfront.ErrorMessage(err))

	// A transport failure is not an auth failure; the credential stays.
	_, ok := store.Get()
	assert.True(t, ok)
}
