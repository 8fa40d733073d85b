package twinfield

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hexa-center/book-a-room/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSession(t *testing.T, authURL string) (*Session, *time.Time, *time.Duration) {
	t.Helper()

	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	var scheduled time.Duration

	s := NewSession(config.TwinfieldConfig{
		ClientID:     "book-a-room",
		ClientSecret: "secret",
		Office:       "OFF001",
		RedirectURI:  "http://localhost:3000/settings",
		AuthBaseURL:  authURL,
		APITimeout:   5 * time.Second,
	}, zap.NewNop())
	s.now = func() time.Time { return now }
	s.afterFunc = func(d time.Duration, f func()) *time.Timer {
		scheduled = d
		return time.NewTimer(time.Hour)
	}
	return s, &now, &scheduled
}

func tokenServer(t *testing.T, expiresIn int, gotForm *map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/authentication/connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		if gotForm != nil {
			form := map[string]string{}
			for k := range r.PostForm {
				form[k] = r.PostForm.Get(k)
			}
			*gotForm = form
		}

		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-1",
			ExpiresIn:    expiresIn,
			TokenType:    "Bearer",
			RefreshToken: "refresh-1",
		})
	}))
}

func TestSessionConnect(t *testing.T) {
	var form map[string]string
	srv := tokenServer(t, 3600, &form)
	defer srv.Close()

	s, _, scheduled := testSession(t, srv.URL)

	err := s.Connect(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "authorization_code", form["grant_type"])
	assert.Equal(t, "auth-code", form["code"])
	assert.Equal(t, "http://localhost:3000/settings", form["redirect_uri"])

	token, err := s.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.True(t, s.Connected())

	// renewal fires 30 seconds before expiry
	assert.Equal(t, 3600*time.Second-30*time.Second, *scheduled)
}

func TestSessionRefreshUsesStoredToken(t *testing.T) {
	var form map[string]string
	srv := tokenServer(t, 3600, &form)
	defer srv.Close()

	s, _, _ := testSession(t, srv.URL)
	require.NoError(t, s.Connect(context.Background(), "auth-code"))

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "refresh_token", form["grant_type"])
	assert.Equal(t, "refresh-1", form["refresh_token"])
}

func TestSessionExpiredToken(t *testing.T) {
	srv := tokenServer(t, 3600, nil)
	defer srv.Close()

	s, now, _ := testSession(t, srv.URL)
	require.NoError(t, s.Connect(context.Background(), "auth-code"))

	*now = now.Add(2 * time.Hour)

	_, err := s.CurrentToken()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, s.Connected())
}

func TestSessionDisconnect(t *testing.T) {
	srv := tokenServer(t, 3600, nil)
	defer srv.Close()

	s, _, _ := testSession(t, srv.URL)
	require.NoError(t, s.Connect(context.Background(), "auth-code"))

	s.Disconnect()

	_, err := s.CurrentToken()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrNoSession)
}

func TestSessionNoSessionBeforeConnect(t *testing.T) {
	s, _, _ := testSession(t, "http://unused")

	_, err := s.CurrentToken()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, _, _ := testSession(t, srv.URL)
	err := s.Connect(context.Background(), "bad-code")
	assert.Error(t, err)
	assert.False(t, s.Connected())
}
