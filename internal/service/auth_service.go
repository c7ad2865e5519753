package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
	"bookwise/api/internal/security"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike so
	// the two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionInvalid     = errors.New("session missing, expired or revoked")
	ErrNotSessionOwner    = errors.New("session belongs to another user")
	ErrTokenRevoked       = errors.New("token revoked")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id string, hash []byte, salt []byte) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	Revoke(ctx context.Context, hash string) (models.Session, error)
	RevokeByID(ctx context.Context, id string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	gate     Gate
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, gate Gate, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		gate:     gate,
		cfg:      cfg,
		log:      log,
	}
}

type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (models.User, error) {
	user := models.User{
		ID:          ids.New(),
		Email:       strings.TrimSpace(strings.ToLower(input.Email)),
		DisplayName: input.DisplayName,
		Role:        models.UserRoleMember,
	}

	hash, salt, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

type SignInInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type SignInResult struct {
	User         models.User
	SessionID    string
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (SignInResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash, user.PasswordSalt) {
		return SignInResult{}, ErrInvalidCredentials
	}

	refreshToken, refreshID, err := security.IssueRefreshToken(
		s.cfg.Security.JWTRefreshSecret, user.ID, s.cfg.Security.JWTRefreshTTL)
	if err != nil {
		return SignInResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		UserID:           user.ID,
		RefreshTokenHash: security.HashTokenID(refreshID),
		IPAddress:        input.IPAddress,
		UserAgent:        input.UserAgent,
		ExpiresAt:        time.Now().Add(s.cfg.Security.JWTRefreshTTL),
	}
	session.DeviceLabel, session.OSLabel, session.BrowserLabel = parseUserAgent(input.UserAgent)

	if err := s.sessions.Create(ctx, session); err != nil {
		return SignInResult{}, err
	}

	accessToken, _, err := security.IssueAccessToken(
		s.cfg.Security.JWTAccessSecret, user.ID, session.ID, string(user.Role), s.cfg.Security.JWTAccessTTL)
	if err != nil {
		return SignInResult{}, err
	}

	return SignInResult{
		User:         user,
		SessionID:    session.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshTTL:   s.cfg.Security.JWTRefreshTTL,
	}, nil
}

// Refresh mints a new access token for the session behind the refresh token.
// The refresh token itself is reused until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := security.ParseRefreshToken(refreshToken, s.cfg.Security.JWTRefreshSecret)
	if err != nil {
		return "", ErrSessionInvalid
	}

	session, err := s.sessions.FindByRefreshTokenHash(ctx, security.HashTokenID(claims.ID))
	if err != nil {
		return "", ErrSessionInvalid
	}
	if !session.Active(time.Now()) {
		return "", ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return "", ErrSessionInvalid
	}

	accessToken, _, err := security.IssueAccessToken(
		s.cfg.Security.JWTAccessSecret, user.ID, session.ID, string(user.Role), s.cfg.Security.JWTAccessTTL)
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// SignOut revokes the session behind the refresh token and denylists its
// access tokens. Errors are returned for logging only; the handler clears
// the cookie regardless so sign-out never blocks the client.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := security.ParseRefreshToken(refreshToken, s.cfg.Security.JWTRefreshSecret)
	if err != nil {
		return nil
	}

	session, err := s.sessions.Revoke(ctx, security.HashTokenID(claims.ID))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.gate.RevokeSession(ctx, session.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, current string, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.VerifyPassword(current, user.PasswordHash, user.PasswordSalt) {
		return ErrInvalidCredentials
	}

	hash, salt, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash, salt)
}

func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

func (s *AuthService) RevokeSessionByID(ctx context.Context, callerID string, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != callerID {
		return ErrNotSessionOwner
	}

	if err := s.sessions.RevokeByID(ctx, sessionID); err != nil {
		return err
	}
	return s.gate.RevokeSession(ctx, sessionID)
}

type AdminUpdateUserInput struct {
	UserID      string
	Email       string
	DisplayName string
	Role        models.UserRole
}

// AdminUpdateUser applies an administrator edit. A role change invalidates
// every access token the user currently holds so stale role claims cannot be
// replayed.
func (s *AuthService) AdminUpdateUser(ctx context.Context, input AdminUpdateUserInput) (models.User, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return models.User{}, err
	}

	roleChanged := input.Role != "" && input.Role != user.Role

	if input.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(input.Email))
	}
	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.Role != "" {
		user.Role = input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	if roleChanged {
		if err := s.gate.InvalidateUser(ctx, user.ID, time.Now()); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("denylist after role change failed")
			return models.User{}, err
		}
	}
	return user, nil
}

// Authorize validates an access token against signature, expiry and the
// denylist. It is the guard behind every protected route and touches only
// the cache, never the database.
func (s *AuthService) Authorize(ctx context.Context, tokenStr string) (*security.AccessClaims, error) {
	claims, err := security.ParseAccessToken(tokenStr, s.cfg.Security.JWTAccessSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	revoked, err := s.gate.SessionRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	// Strictly before: the watermark is second-truncated like the iat claim,
	// so a token minted in the same second as the invalidation stays valid.
	watermark, set, err := s.gate.UserInvalidatedAt(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if set && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(watermark) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func parseUserAgent(raw string) (device *string, os *string, browser *string) {
	if raw == "" {
		return nil, nil, nil
	}

	ua := useragent.Parse(raw)
	if ua.Device != "" {
		device = &ua.Device
	}
	if ua.OS != "" {
		os = &ua.OS
	}
	if ua.Name != "" {
		browser = &ua.Name
	}
	return device, os, browser
}
