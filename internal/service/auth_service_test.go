package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
)

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id string, hash []byte, salt []byte) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	f.users[id] = user
	return nil
}

type fakeSessionStore struct {
	sessions map[string]models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session models.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) FindByRefreshTokenHash(_ context.Context, hash string) (models.Session, error) {
	for _, session := range f.sessions {
		if session.RefreshTokenHash == hash {
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (f *fakeSessionStore) ListByUser(_ context.Context, userID string) ([]models.Session, error) {
	var out []models.Session
	for _, session := range f.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, hash string) (models.Session, error) {
	for id, session := range f.sessions {
		if session.RefreshTokenHash == hash {
			session.Revoked = true
			f.sessions[id] = session
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (f *fakeSessionStore) RevokeByID(_ context.Context, id string) error {
	session, ok := f.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Revoked = true
	f.sessions[id] = session
	return nil
}

type fakeGate struct {
	revokedSessions map[string]bool
	watermarks      map[string]time.Time
}

func newFakeGate() *fakeGate {
	return &fakeGate{
		revokedSessions: map[string]bool{},
		watermarks:      map[string]time.Time{},
	}
}

func (f *fakeGate) RevokeSession(_ context.Context, sessionID string) error {
	f.revokedSessions[sessionID] = true
	return nil
}

func (f *fakeGate) SessionRevoked(_ context.Context, sessionID string) (bool, error) {
	return f.revokedSessions[sessionID], nil
}

func (f *fakeGate) InvalidateUser(_ context.Context, userID string, at time.Time) error {
	// Second truncation mirrors the Redis-backed gate, which stores unix
	// seconds.
	f.watermarks[userID] = time.Unix(at.Unix(), 0)
	return nil
}

func (f *fakeGate) UserInvalidatedAt(_ context.Context, userID string) (time.Time, bool, error) {
	at, ok := f.watermarks[userID]
	return at, ok, nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret:  "access-secret",
			JWTRefreshSecret: "refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    720 * time.Hour,
		},
	}
}

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore, *fakeGate) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	gate := newFakeGate()
	svc := NewAuthService(users, sessions, gate, testConfig(), zerolog.Nop())
	return svc, users, sessions, gate
}

func signUpAndIn(t *testing.T, svc *AuthService, email string) SignInResult {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpInput{
		Email:       email,
		Password:    "hunter2hunter2",
		DisplayName: "Test User",
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	result, err := svc.SignIn(ctx, SignInInput{
		Email:     email,
		Password:  "hunter2hunter2",
		IPAddress: "127.0.0.1",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/126.0",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return result
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if result.User.Role != models.UserRoleMember {
		t.Fatalf("role = %q, want MEMBER", result.User.Role)
	}

	session, err := sessions.GetByID(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if session.RefreshTokenHash == "" {
		t.Fatal("expected hashed refresh token id on the session")
	}
	if session.BrowserLabel == nil || *session.BrowserLabel != "Firefox" {
		t.Fatalf("browser label = %v", session.BrowserLabel)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	signUpAndIn(t, svc, "member@example.edu")

	_, err := svc.SignIn(context.Background(), SignInInput{
		Email:    "member@example.edu",
		Password: "not the password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, err := svc.SignIn(context.Background(), SignInInput{
		Email:    "nobody@example.edu",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	signUpAndIn(t, svc, "member@example.edu")

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Email:       "Member@Example.edu",
		Password:    "anotherpassword",
		DisplayName: "Duplicate",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthorizeAcceptsFreshToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")

	claims, err := svc.Authorize(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if claims.SessionID != result.SessionID {
		t.Fatalf("session id = %q, want %q", claims.SessionID, result.SessionID)
	}
}

func TestSignOutRevokesAccessTokens(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	if err := svc.SignOut(ctx, result.RefreshToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if _, err := svc.Authorize(ctx, result.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("err = %v, want ErrSessionInvalid", err)
	}
}

func TestSignOutGarbageTokenIsNoop(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	if err := svc.SignOut(context.Background(), "not a jwt"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
}

func TestSessionsNeverShareRefreshHash(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService()
	ctx := context.Background()

	first := signUpAndIn(t, svc, "member@example.edu")
	second, err := svc.SignIn(ctx, SignInInput{
		Email:    "member@example.edu",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}

	// The hash column carries a unique constraint; every sign-in must mint a
	// fresh token id.
	a, _ := sessions.GetByID(ctx, first.SessionID)
	b, _ := sessions.GetByID(ctx, second.SessionID)
	if a.RefreshTokenHash == b.RefreshTokenHash {
		t.Fatal("expected distinct refresh token hashes per session")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	first := signUpAndIn(t, svc, "member@example.edu")
	second, err := svc.SignIn(ctx, SignInInput{
		Email:    "member@example.edu",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}

	if err := svc.SignOut(ctx, first.RefreshToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if _, err := svc.Authorize(ctx, first.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("first session err = %v, want ErrTokenRevoked", err)
	}
	if _, err := svc.Authorize(ctx, second.AccessToken); err != nil {
		t.Fatalf("second session should stay valid: %v", err)
	}
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	accessToken, err := svc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := svc.Authorize(ctx, accessToken)
	if err != nil {
		t.Fatalf("Authorize refreshed token: %v", err)
	}
	if claims.SessionID != result.SessionID {
		t.Fatalf("session id = %q, want %q", claims.SessionID, result.SessionID)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	if _, err := svc.Refresh(context.Background(), "not a jwt"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("err = %v, want ErrSessionInvalid", err)
	}
}

func TestRoleChangeInvalidatesOldTokens(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	// Token issued-at stamps have second granularity; make sure the watermark
	// lands in a later second than the old token.
	time.Sleep(1100 * time.Millisecond)

	if _, err := svc.AdminUpdateUser(ctx, AdminUpdateUserInput{
		UserID: result.User.ID,
		Role:   models.UserRoleLibrarian,
	}); err != nil {
		t.Fatalf("AdminUpdateUser: %v", err)
	}

	if _, err := svc.Authorize(ctx, result.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}

	fresh, err := svc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := svc.Authorize(ctx, fresh)
	if err != nil {
		t.Fatalf("fresh token should pass: %v", err)
	}
	if claims.Role != string(models.UserRoleLibrarian) {
		t.Fatalf("role = %q, want LIBRARIAN", claims.Role)
	}
}

func TestWatermarkSparesSameSecondToken(t *testing.T) {
	svc, _, _, gate := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	claims, err := svc.Authorize(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}

	// A watermark in the same second as the token's iat claim must not reject
	// it; both sides are second-truncated, so only strictly older tokens go.
	if err := gate.InvalidateUser(ctx, result.User.ID, claims.IssuedAt.Time); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if _, err := svc.Authorize(ctx, result.AccessToken); err != nil {
		t.Fatalf("same-second token should pass: %v", err)
	}

	// One second later the same token is strictly older than the watermark.
	if err := gate.InvalidateUser(ctx, result.User.ID, claims.IssuedAt.Time.Add(time.Second)); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if _, err := svc.Authorize(ctx, result.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestRevokeSessionByIDOwnerOnly(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	err := svc.RevokeSessionByID(ctx, "someone-else", result.SessionID)
	if !errors.Is(err, ErrNotSessionOwner) {
		t.Fatalf("err = %v, want ErrNotSessionOwner", err)
	}

	if err := svc.RevokeSessionByID(ctx, result.User.ID, result.SessionID); err != nil {
		t.Fatalf("RevokeSessionByID: %v", err)
	}
	if _, err := svc.Authorize(ctx, result.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	result := signUpAndIn(t, svc, "member@example.edu")
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, result.User.ID, "wrong", "newpassword123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, result.User.ID, "hunter2hunter2", "newpassword123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.SignIn(ctx, SignInInput{
		Email:    "member@example.edu",
		Password: "hunter2hunter2",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should fail, err = %v", err)
	}
	if _, err := svc.SignIn(ctx, SignInInput{
		Email:    "member@example.edu",
		Password: "newpassword123",
	}); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}
