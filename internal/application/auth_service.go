package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CredentialStore exposes user credential lookup operations required by the auth service.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// SessionRepository captures the persistence interactions for issued sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates login, logout, and session validation.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, verify, tokenGenerator, now, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions SessionRepository, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "auth", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (AuthenticateResult, error) {
	if s == nil {
		return AuthenticateResult{}, fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil {
		return AuthenticateResult{}, fmt.Errorf("credential store not configured")
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "authenticate", "email", email)

	if email == "" || params.Password == "" {
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	creds, err := s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.InfoContext(ctx, "authentication failed", "error_kind", ErrorKind(ErrInvalidCredentials))
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	if err := s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		logger.InfoContext(ctx, "authentication failed", "error_kind", ErrorKind(ErrInvalidCredentials))
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	now := s.now()
	session := Session{
		ID:        s.tokenGenerator(),
		UserID:    creds.User.ID,
		Token:     s.tokenGenerator(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if session.Token == "" {
		session.Token = session.ID
	}

	if s.sessions != nil {
		if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
			return AuthenticateResult{}, err
		}
		persisted, err := s.sessions.CreateSession(ctx, session)
		if err != nil {
			return AuthenticateResult{}, err
		}
		session = persisted
	}

	logger.With("user_id", creds.User.ID).InfoContext(ctx, "authentication succeeded")
	return AuthenticateResult{User: creds.User, Session: session}, nil
}

// RevokeSession invalidates an existing session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrInvalidCredentials
	}

	if err := s.sessions.RevokeSession(ctx, trimmed, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	s.loggerWith(ctx, "revoke").InfoContext(ctx, "session revoked")
	return nil
}

// ValidateSession verifies that the provided token corresponds to an active
// session and returns its principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return Principal{}, fmt.Errorf("session repository not configured")
	}
	if s.credentials == nil {
		return Principal{}, fmt.Errorf("credential store not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Principal{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, trimmed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		return Principal{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		return Principal{}, ErrSessionExpired
	}

	user, err := s.credentials.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	return Principal{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}
