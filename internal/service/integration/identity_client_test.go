package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityClient_CreateUserRetriesResendBody(t *testing.T) {
	var mu sync.Mutex
	var bodies [][]byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		mu.Lock()
		bodies = append(bodies, data)
		attempt := len(bodies)
		mu.Unlock()

		// Первый вызов падает, второй отвечает нормально
		if attempt == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "sam@example.com"})
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, "anon", "service", time.Second, 2, time.Millisecond, nil, 0, zerolog.Nop())

	identity, err := client.CreateUser(context.Background(), "sam@example.com", "password123", "Sam", "student")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)

	require.Len(t, bodies, 2)
	assert.NotEmpty(t, bodies[0])
	assert.Equal(t, bodies[0], bodies[1], "retry must resend the full request body")
}

func TestIdentityClient_ResolveRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, "anon", "service", time.Second, 0, time.Millisecond, nil, 0, zerolog.Nop())

	_, err := client.Resolve(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestIdentityClient_ResolveRetriesOnServerError(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		current := attempts
		mu.Unlock()

		if current == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "sam@example.com"})
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, "anon", "service", time.Second, 2, time.Millisecond, nil, 0, zerolog.Nop())

	identity, err := client.Resolve(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, 2, attempts)
}
