package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelora/crm-backend/config"
	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/tenant"
)

// =============================
// In-memory fakes
// =============================

type fakeRepo struct {
	mu          sync.Mutex
	users       map[string]*User
	refresh     map[string]*RefreshToken
	resetTokens map[string]*PasswordResetToken
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       make(map[string]*User),
		refresh:     make(map[string]*RefreshToken),
		resetTokens: make(map[string]*PasswordResetToken),
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) ListByTenant(_ context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) IncrementFailedLogins(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return 0, errors.New("no such user")
	}
	u.FailedLogins++
	return u.FailedLogins, nil
}

func (f *fakeRepo) LockUntil(_ context.Context, userID string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].LockedUntil = &until
	return nil
}

func (f *fakeRepo) RecordLoginSuccess(_ context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.FailedLogins = 0
	u.LockedUntil = nil
	u.LastLogin = &at
	return nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, rt *RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rt
	f.refresh[rt.Token] = &cp
	return nil
}

func (f *fakeRepo) FindRefreshToken(_ context.Context, token string) (*RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.refresh[token]
	if !ok {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRepo) RotateRefreshToken(_ context.Context, old *RefreshToken, next *RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.refresh[old.Token]
	if !ok || stored.Revoked {
		return errors.New("rotation conflict")
	}
	stored.Revoked = true
	stored.ReplacedBy = next.Token
	cp := *next
	f.refresh[next.Token] = &cp
	return nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.refresh[token]; ok {
		rt.Revoked = true
	}
	return nil
}

func (f *fakeRepo) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rt := range f.refresh {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateResetToken(_ context.Context, prt *PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *prt
	f.resetTokens[prt.Token] = &cp
	return nil
}

func (f *fakeRepo) FindResetToken(_ context.Context, token string) (*PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prt, ok := f.resetTokens[token]
	if !ok {
		return nil, nil
	}
	cp := *prt
	return &cp, nil
}

func (f *fakeRepo) DeleteResetToken(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, prt := range f.resetTokens {
		if prt.ID == id {
			delete(f.resetTokens, token)
		}
	}
	return nil
}

type fakeTenantRepo struct {
	tenants map[string]*tenant.Tenant // keyed by domain
}

func (f *fakeTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	f.tenants[t.Domain] = t
	return nil
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) FindByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	return f.tenants[domain], nil
}

func (f *fakeTenantRepo) List(_ context.Context) ([]tenant.Tenant, error) { return nil, nil }

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
}

func (f *fakeMailer) Send(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeRecorder) Record(_ context.Context, _, _, action string, _ map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeRecorder) has(action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actions {
		if a == action {
			return true
		}
	}
	return false
}

// =============================
// Fixture
// =============================

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:       "test-access",
		JWTRefreshSecret:      "test-refresh",
		JWTResetSecret:        "test-reset",
		AccessTokenTTL:        15 * time.Minute,
		RefreshTokenTTL:       7 * 24 * time.Hour,
		ResetTokenTTL:         time.Hour,
		ImpersonationTokenTTL: 5 * time.Minute,
		LockoutThreshold:      5,
		LockoutDuration:       15 * time.Minute,
		FrontendURL:           "http://localhost:3000",
	}
}

type fixture struct {
	svc    Service
	repo   *fakeRepo
	mailer *fakeMailer
	audit  *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	audit := &fakeRecorder{}
	tenants := &fakeTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme.test": {ID: "tenant-acme", Name: "Acme Travel", Domain: "acme.test"},
	}}
	return &fixture{
		svc:    NewService(repo, tenants, mailer, audit, testConfig()),
		repo:   repo,
		mailer: mailer,
		audit:  audit,
	}
}

func (fx *fixture) addUser(t *testing.T, id, email, password, role, tenantID string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		TenantID:     tenantID,
		IsActive:     true,
	}
	require.NoError(t, fx.repo.Create(context.Background(), u))
	return u
}

func parseClaims(t *testing.T, tokenStr, secret string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return token.Claims.(jwt.MapClaims)
}

// =============================
// Login & lockout
// =============================

func TestLoginSuccess(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, user, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotNil(t, user.LastLogin)

	claims := parseClaims(t, pair.AccessToken, "test-access")
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, RoleAgent, claims["role"])
	assert.Equal(t, "tenant-acme", claims["tenant_id"])

	stored, err := fx.repo.FindRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, stored, "refresh token must be persisted server-side")
	assert.Equal(t, "u1", stored.UserID)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	_, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, _, err = fx.svc.Login(ctx, LoginInput{Email: "nobody@acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials,
		"unknown email and wrong password must be indistinguishable")
}

func TestLockoutAfterFiveFailures(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "wrong"})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	}

	// 6th attempt with the correct password still fails while locked.
	_, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	assert.ErrorIs(t, err, apperror.ErrAccountLocked)
	assert.True(t, fx.audit.has("account_locked"))

	// Window elapsed: correct password succeeds and the counter resets.
	past := time.Now().Add(-time.Minute)
	fx.repo.users["u1"].LockedUntil = &past

	_, user, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedLogins)
	assert.Nil(t, user.LockedUntil)
	assert.Equal(t, 0, fx.repo.users["u1"].FailedLogins)
}

func TestLoginDisabledUser(t *testing.T) {
	fx := newFixture(t)
	u := fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	fx.repo.users[u.ID].IsActive = false

	_, _, err := fx.svc.Login(context.Background(), LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	assert.ErrorIs(t, err, apperror.ErrUserDisabled)
}

// =============================
// Refresh rotation & reuse detection
// =============================

func TestRefreshRotation(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)

	rotated, err := fx.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	old, err := fx.repo.FindRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.Revoked)
	assert.Equal(t, rotated.RefreshToken, old.ReplacedBy)
}

func TestRotatedTokenReplayRevokesFamily(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)
	rotated, err := fx.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// Replay the pre-rotation token.
	_, err = fx.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
	assert.True(t, fx.audit.has("token_reuse_detected"))

	// The legitimate successor is dead too.
	_, err = fx.svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
}

func TestUnknownButValidSignatureTriggersReuseRevocation(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)

	// Forge a signature-valid token we never stored.
	claims := jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(), "jti": "forged"}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-refresh"))
	require.NoError(t, err)

	_, err = fx.svc.Refresh(ctx, forged)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
	assert.True(t, fx.audit.has("token_reuse_detected"))

	// Legitimate session was revoked as part of the family.
	_, err = fx.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
}

func TestRefreshGarbageToken(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
}

func TestRefreshExpiredRecord(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)
	fx.repo.refresh[pair.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = fx.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
}

func TestLogoutIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "Secret123"})
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, fx.svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, fx.svc.Logout(ctx, "unknown"))
	require.NoError(t, fx.svc.Logout(ctx, ""))

	_, err = fx.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)
}

// =============================
// Password reset
// =============================

func TestResetRequestDoesNotRevealExistence(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	assert.NoError(t, fx.svc.RequestPasswordReset(ctx, "agent@acme.test"))
	assert.NoError(t, fx.svc.RequestPasswordReset(ctx, "ghost@acme.test"),
		"unknown email must produce the same outcome")

	fx.repo.mu.Lock()
	assert.Len(t, fx.repo.resetTokens, 1, "only the real user gets a token")
	fx.repo.mu.Unlock()
}

func TestResetPasswordFlow(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "OldPass123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	// Establish a session that must die after the reset.
	pair, _, err := fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "OldPass123"})
	require.NoError(t, err)

	require.NoError(t, fx.svc.RequestPasswordReset(ctx, "agent@acme.test"))
	var token string
	fx.repo.mu.Lock()
	for tok := range fx.repo.resetTokens {
		token = tok
	}
	fx.repo.mu.Unlock()
	require.NotEmpty(t, token)

	require.NoError(t, fx.svc.ResetPassword(ctx, token, "NewPass456"))

	// Old password dead, new one works.
	_, _, err = fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "OldPass123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, _, err = fx.svc.Login(ctx, LoginInput{Email: "agent@acme.test", Password: "NewPass456"})
	assert.NoError(t, err)

	// Pre-reset refresh token was revoked.
	_, err = fx.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidRefresh)

	// Single use: the same token cannot be consumed twice.
	err = fx.svc.ResetPassword(ctx, token, "AnotherPass789")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "u1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")
	ctx := context.Background()

	require.NoError(t, fx.svc.RequestPasswordReset(ctx, "agent@acme.test"))
	fx.repo.mu.Lock()
	var token string
	for tok, prt := range fx.repo.resetTokens {
		token = tok
		prt.ExpiresAt = time.Now().Add(-time.Minute)
	}
	fx.repo.mu.Unlock()

	err := fx.svc.ResetPassword(ctx, token, "NewPass456")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

// =============================
// Impersonation
// =============================

func TestImpersonateSameTenant(t *testing.T) {
	fx := newFixture(t)
	admin := fx.addUser(t, "admin-1", "admin@acme.test", "Secret123", RoleAdmin, "tenant-acme")
	fx.addUser(t, "agent-1", "agent@acme.test", "Secret123", RoleAgent, "tenant-acme")

	token, err := fx.svc.Impersonate(context.Background(), admin, "agent-1")
	require.NoError(t, err)

	claims := parseClaims(t, token, "test-access")
	assert.Equal(t, "agent-1", claims["sub"], "token resolves to the target identity")
	assert.Equal(t, RoleAgent, claims["role"])
	assert.Equal(t, "tenant-acme", claims["tenant_id"])
	assert.Equal(t, "admin-1", claims["impersonator"], "audit trail back to the actor")
	assert.True(t, fx.audit.has("impersonation_issued"))

	// Short-lived: five minutes, not days.
	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 30*time.Second)
}

func TestImpersonateCrossTenantIsNotFound(t *testing.T) {
	fx := newFixture(t)
	admin := fx.addUser(t, "admin-1", "admin@acme.test", "Secret123", RoleAdmin, "tenant-acme")
	fx.addUser(t, "other-1", "agent@other.test", "Secret123", RoleAgent, "tenant-other")

	_, err := fx.svc.Impersonate(context.Background(), admin, "other-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound,
		"cross-tenant target collapses into not_found")

	_, err = fx.svc.Impersonate(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =============================
// Register
// =============================

func TestRegister(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, RegisterInput{Email: "a@b.test", Password: "weak", TenantDomain: "acme.test"})
	assert.ErrorIs(t, err, apperror.ErrWeakPassword)

	_, err = fx.svc.Register(ctx, RegisterInput{Email: "a@b.test", Password: "Strong123", TenantDomain: "nope.test"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTenant)

	user, err := fx.svc.Register(ctx, RegisterInput{Email: "a@b.test", Password: "Strong123", TenantDomain: "acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "tenant-acme", user.TenantID)
	assert.Equal(t, RoleAgent, user.Role)

	_, err = fx.svc.Register(ctx, RegisterInput{Email: "a@b.test", Password: "Strong123", TenantDomain: "acme.test"})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}
