package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Store holds the current session, persists it to durable storage and
// implements api.TokenSource for the client's refresh protocol.
type Store struct {
	client  *api.Client
	storage Storage
	logger  zerolog.Logger

	mu      sync.RWMutex
	session *model.Session

	// onInvalidate runs after a forced logout (refresh failure); the UI
	// hooks its redirect-to-login here.
	onInvalidate func()
}

// NewStore creates a session store and loads any persisted session. The API
// client is attached afterwards via Bind because the client itself needs the
// store as its token source.
func NewStore(storage Storage, logger zerolog.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  logger.With().Str("store", "session").Logger(),
	}

	persisted, err := storage.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load persisted session")
	} else if persisted.Authenticated() {
		s.session = persisted
	}

	return s
}

// Bind attaches the API client used for auth calls.
func (s *Store) Bind(client *api.Client) {
	s.client = client
}

// OnInvalidate registers a callback run after a forced logout.
func (s *Store) OnInvalidate(fn func()) {
	s.onInvalidate = fn
}

// Login authenticates and persists the resulting session. A 401/403 is
// retried once through the client's refresh protocol before failing.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	result, err := api.Post[model.AuthResult](ctx, s.client, "/auth/login", creds)
	if err != nil {
		s.logger.Warn().Str("username", creds.Username).Err(err).Msg("login failed")
		return nil, err
	}

	if result.Token == "" || result.User == nil {
		return nil, model.ErrInvalidResponse
	}

	session := &model.Session{User: result.User, Token: result.Token}
	s.persist(session)

	s.logger.Info().Str("username", creds.Username).Msg("logged in")
	return session, nil
}

// Register creates an account. The session is only persisted when the server
// returns a token; deployments with email verification return none and the
// caller stays signed out.
func (s *Store) Register(ctx context.Context, reg model.Registration) (*model.Session, error) {
	result, err := api.Post[model.AuthResult](ctx, s.client, "/auth/register", reg)
	if err != nil {
		s.logger.Warn().Str("username", reg.Username).Err(err).Msg("registration failed")
		return nil, err
	}

	if result.User == nil {
		return nil, model.ErrInvalidResponse
	}

	session := &model.Session{User: result.User, Token: result.Token}
	if result.Token != "" {
		s.persist(session)
	}

	s.logger.Info().Str("username", reg.Username).Bool("authenticated", result.Token != "").Msg("registered")
	return session, nil
}

// Logout clears the session. It never fails from the caller's perspective;
// the server call is best effort.
func (s *Store) Logout(ctx context.Context) {
	if s.client != nil {
		if _, err := s.client.Do(ctx, "POST", "/auth/logout", nil); err != nil {
			s.logger.Debug().Err(err).Msg("server logout failed, clearing locally anyway")
		}
	}
	s.clear()
	s.logger.Info().Msg("logged out")
}

// Refresh exchanges the current token for a new one. Single-flight
// serialisation is owned by the API client; any failure here forces logout.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	result, err := api.Post[model.AuthResult](ctx, s.client, "/auth/refresh-token", nil)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	if result.Token == "" {
		return "", model.ErrInvalidResponse
	}

	s.mu.Lock()
	if s.session != nil {
		s.session.Token = result.Token
		if err := s.storage.Save(s.session); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist refreshed token")
		}
	}
	s.mu.Unlock()

	s.logger.Debug().Msg("token refreshed")
	return result.Token, nil
}

// Invalidate discards the session after an unrecoverable auth failure. This
// is the only path that force-navigates without user action.
func (s *Store) Invalidate() {
	s.clear()
	s.logger.Warn().Msg("session invalidated")
	if s.onInvalidate != nil {
		s.onInvalidate()
	}
}

// Token returns the current access token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Current returns the current session, or nil.
func (s *Store) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// IsAuthenticated reports whether a token and user record are both present.
func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// TokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job.
func (s *Store) TokenExpired() bool {
	token := s.Token()
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// VerifyEmail confirms an account via the emailed token.
func (s *Store) VerifyEmail(ctx context.Context, token string) error {
	_, err := s.client.Do(ctx, "GET", "/auth/verify-email?token="+url.QueryEscape(token), nil)
	return err
}

// ResendVerification re-sends the account verification email.
func (s *Store) ResendVerification(ctx context.Context, email string) error {
	_, err := s.client.Do(ctx, "POST", "/auth/resend-verification", map[string]string{"email": email})
	return err
}

// ForgotPassword starts the OTP reset flow.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.client.Do(ctx, "POST", "/auth/forgot-password", map[string]string{"email": email})
	return err
}

// VerifyOTP checks the reset OTP and returns the reset token.
func (s *Store) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	result, err := api.Post[struct {
		ResetToken string `json:"resetToken"`
	}](ctx, s.client, "/auth/verify-otp", map[string]string{"email": email, "otp": otp})
	if err != nil {
		return "", err
	}
	return result.ResetToken, nil
}

// ResetPassword completes the OTP reset flow.
func (s *Store) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	_, err := s.client.Do(ctx, "POST", "/auth/reset-password", map[string]string{
		"resetToken":  resetToken,
		"newPassword": newPassword,
	})
	return err
}

func (s *Store) persist(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	if err := s.storage.Save(session); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
}
