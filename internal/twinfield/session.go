// Package twinfield talks to the Twinfield accounting API: an OAuth
// session that keeps itself refreshed, and a SOAP client that posts
// ProcessXmlString requests to the office's cluster.
package twinfield

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hexa-center/book-a-room/internal/config"
	"go.uber.org/zap"
)

// ErrNoSession is returned when no OAuth session has been established or
// the previous one was disconnected.
var ErrNoSession = errors.New("no twinfield session")

// refreshMargin is how long before expiry the access token is renewed.
const refreshMargin = 30 * time.Second

// TokenResponse is the OAuth token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// Session holds the OAuth tokens for the accounting API and renews the
// access token shortly before it expires.
type Session struct {
	cfg    config.TwinfieldConfig
	client *http.Client
	logger *zap.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	timer        *time.Timer
}

// NewSession creates a disconnected session. Connect must be called with
// an authorization code before tokens are available.
func NewSession(cfg config.TwinfieldConfig, logger *zap.Logger) *Session {
	return &Session{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.APITimeout},
		logger:    logger,
		now:       time.Now,
		afterFunc: time.AfterFunc,
	}
}

// Connect exchanges an authorization code for tokens and schedules the
// first refresh.
func (s *Session) Connect(ctx context.Context, code string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)
	return s.requestToken(ctx, form)
}

// Refresh renews the access token using the stored refresh token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()
	if refreshToken == "" {
		return ErrNoSession
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return s.requestToken(ctx, form)
}

func (s *Session) requestToken(ctx context.Context, form url.Values) error {
	endpoint := s.cfg.AuthBaseURL + "/auth/authentication/connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+s.basicAuth())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Token request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("token request rejected with status %d", resp.StatusCode)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	s.store(token)
	return nil
}

func (s *Session) store(token TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.refreshToken = token.RefreshToken
	}
	lifetime := time.Duration(token.ExpiresIn) * time.Second
	s.expiresAt = s.now().Add(lifetime)

	if s.timer != nil {
		s.timer.Stop()
	}
	delay := lifetime - refreshMargin
	if delay < 0 {
		delay = 0
	}
	s.timer = s.afterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.APITimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.Error("Failed to refresh twinfield token", zap.Error(err))
		}
	})

	s.logger.Info("Twinfield session refreshed", zap.Time("expires_at", s.expiresAt))
}

// CurrentToken returns the access token, or ErrNoSession when the
// session is disconnected or the token has expired.
func (s *Session) CurrentToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" || !s.now().Before(s.expiresAt) {
		return "", ErrNoSession
	}
	return s.accessToken, nil
}

// Connected reports whether a usable session exists.
func (s *Session) Connected() bool {
	_, err := s.CurrentToken()
	return err == nil
}

// Disconnect drops the tokens and cancels the pending refresh.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
}

func (s *Session) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(s.cfg.ClientID + ":" + s.cfg.ClientSecret))
}
