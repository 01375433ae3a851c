package adminfront_test

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminfront "github.com/vledera/go-adminfront"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := adminfront.NewMemoryStore()

	credential, ok := store.Get()
	assert.False(t, ok)
	assert.Empty(t, credential)

	store.Set("tok-123")
	credential, ok = store.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok-123", credential)

	store.Clear()
	credential, ok = store.Get()
	assert.False(t, ok)
	assert.Empty(t, credential)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := adminfront.NewMemoryStore()
	store.Set("tok")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Get()
		}()
		go func() {
			defer wg.Done()
			store.Set("tok")
		}()
	}
	wg.Wait()

	credential, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok", credential)
}

func TestCredentialExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	got, ok := adminfront.CredentialExpiry(signed)
	assert.True(t, ok)
	assert.WithinDuration(t, exp, got, time.Second)
}

func TestCredentialExpiryRejectsOpaqueTokens(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{name: "opaque string", credential: "not-a-jwt"},
		{name: "empty string", credential: ""},
		{name: "jwt without exp", credential: mustSign(t, jwt.MapClaims{"user_id": 7})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := adminfront.CredentialExpiry(tt.credential)
			assert.False(t, ok)
		})
	}
}

func mustSign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return signed
}
