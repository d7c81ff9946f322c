package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelora/crm-backend/config"
	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/tenant"
)

// Mailer is the external mail collaborator. Sends are fire-and-forget:
// a delivery failure must never change a response the client can
// observe.
type Mailer interface {
	Send(to, subject, body string) error
}

// Recorder receives security-relevant events (failed logins, lockouts,
// token reuse, impersonation) for the audit pipeline.
type Recorder interface {
	Record(ctx context.Context, userID, tenantID, action string, details map[string]interface{})
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, in LoginInput) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Impersonate(ctx context.Context, actor *User, targetUserID string) (string, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo    Repository
	tenants tenant.Repository
	mailer  Mailer
	audit   Recorder

	accessSecret  string
	refreshSecret string
	resetSecret   string

	accessTTL        time.Duration
	refreshTTL       time.Duration
	resetTTL         time.Duration
	impersonationTTL time.Duration

	lockoutThreshold int
	lockoutDuration  time.Duration

	frontendURL string
}

func NewService(repo Repository, tenants tenant.Repository, mailer Mailer, audit Recorder, cfg *config.Config) Service {
	return &service{
		repo:             repo,
		tenants:          tenants,
		mailer:           mailer,
		audit:            audit,
		accessSecret:     cfg.JWTAccessSecret,
		refreshSecret:    cfg.JWTRefreshSecret,
		resetSecret:      cfg.JWTResetSecret,
		accessTTL:        cfg.AccessTokenTTL,
		refreshTTL:       cfg.RefreshTokenTTL,
		resetTTL:         cfg.ResetTokenTTL,
		impersonationTTL: cfg.ImpersonationTokenTTL,
		lockoutThreshold: cfg.LockoutThreshold,
		lockoutDuration:  cfg.LockoutDuration,
		frontendURL:      cfg.FrontendURL,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	TenantDomain string
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if len(in.Password) < 8 || !strings.ContainsAny(in.Password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") || !strings.ContainsAny(in.Password, "0123456789") {
		return nil, apperror.ErrWeakPassword
	}

	t, err := s.tenants.FindByDomain(ctx, strings.ToLower(in.TenantDomain))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.ErrInvalidTenant
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         RoleAgent,
		TenantID:     t.ID,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
	IP       string
}

func (s *service) Login(ctx context.Context, in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		// Same error whether the email or the password was wrong.
		return nil, nil, apperror.ErrInvalidCredentials
	}

	// Lockout is checked before the password so a locked account cannot
	// be probed.
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, nil, apperror.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		failed, err := s.repo.IncrementFailedLogins(ctx, user.ID)
		if err != nil {
			return nil, nil, err
		}
		s.audit.Record(ctx, user.ID, user.TenantID, "login_failed", map[string]interface{}{"email": user.Email, "ip": in.IP})
		if failed >= s.lockoutThreshold {
			until := time.Now().Add(s.lockoutDuration)
			if err := s.repo.LockUntil(ctx, user.ID, until); err != nil {
				return nil, nil, err
			}
			s.audit.Record(ctx, user.ID, user.TenantID, "account_locked", map[string]interface{}{"until": until, "ip": in.IP})
		}
		return nil, nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, apperror.ErrUserDisabled
	}

	now := time.Now()
	if err := s.repo.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}
	user.FailedLogins = 0
	user.LockedUntil = nil
	user.LastLogin = &now

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *service) issueTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	access, err := s.signAccessToken(user, "", s.accessTTL)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.refreshTTL)
	refresh, err := s.signRefreshToken(user.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateRefreshToken(ctx, &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) signAccessToken(user *User, impersonator string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"role":      user.Role,
		"tenant_id": user.TenantID,
		"exp":       time.Now().Add(ttl).Unix(),
	}
	if impersonator != "" {
		claims["impersonator"] = impersonator
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.accessSecret))
}

func (s *service) signRefreshToken(userID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": expiresAt.Unix(),
		// Unique per issuance; two rotations in the same second must not
		// produce identical token strings.
		"jti": uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.refreshSecret))
}

// =============================
// Refresh (rotation + reuse detection)
// =============================

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	sub, err := s.parseSubject(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, apperror.ErrInvalidRefresh
	}

	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// Signature is valid but we hold no record: the token was
		// rotated away and is now being replayed. Kill the whole family.
		revoked, err := s.repo.RevokeAllForUser(ctx, sub)
		if err != nil {
			return nil, err
		}
		log.Printf("refresh token reuse detected for user %s, revoked %d tokens", sub, revoked)
		s.audit.Record(ctx, sub, "", "token_reuse_detected", map[string]interface{}{"revoked_tokens": revoked})
		return nil, apperror.ErrInvalidRefresh
	}
	if stored.Revoked {
		// The token rotated away once already; presenting it again means
		// someone other than the rotation's winner still holds it.
		revoked, err := s.repo.RevokeAllForUser(ctx, stored.UserID)
		if err != nil {
			return nil, err
		}
		log.Printf("rotated refresh token replayed for user %s, revoked %d tokens", stored.UserID, revoked)
		s.audit.Record(ctx, stored.UserID, "", "token_reuse_detected", map[string]interface{}{"revoked_tokens": revoked})
		return nil, apperror.ErrInvalidRefresh
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, apperror.ErrInvalidRefresh
	}

	user, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidRefresh
	}

	expiresAt := time.Now().Add(s.refreshTTL)
	newRefresh, err := s.signRefreshToken(user.ID, expiresAt)
	if err != nil {
		return nil, err
	}
	next := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     newRefresh,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.RotateRefreshToken(ctx, stored, next); err != nil {
		return nil, apperror.ErrInvalidRefresh
	}

	access, err := s.signAccessToken(user, "", s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the presented refresh token. Idempotent: revoking an
// already-revoked or unknown token succeeds.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

// =============================
// Password reset
// =============================

// RequestPasswordReset always succeeds from the caller's point of view,
// whether or not the email exists.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	expiresAt := time.Now().Add(s.resetTTL)
	claims := jwt.MapClaims{"sub": user.ID, "exp": expiresAt.Unix(), "jti": uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.resetSecret))
	if err != nil {
		return err
	}

	if err := s.repo.CreateResetToken(ctx, &PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset?token=%s", s.frontendURL, token)
	to := user.Email
	go func() {
		body := fmt.Sprintf("Reset your password: %s\n\nIf you did not request this, ignore this email.", resetURL)
		if err := s.mailer.Send(to, "Password reset", body); err != nil {
			log.Printf("failed to send reset email to %s: %v", to, err)
		}
	}()

	s.audit.Record(ctx, user.ID, user.TenantID, "password_reset_requested", nil)
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.ErrWeakPassword
	}

	if _, err := s.parseSubject(token, s.resetSecret); err != nil {
		return apperror.ErrInvalidToken
	}

	record, err := s.repo.FindResetToken(ctx, token)
	if err != nil {
		return err
	}
	if record == nil || record.ExpiresAt.Before(time.Now()) {
		return apperror.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
		return err
	}
	if err := s.repo.DeleteResetToken(ctx, record.ID); err != nil {
		return err
	}
	// A compromised-password response must not leave old sessions valid.
	if _, err := s.repo.RevokeAllForUser(ctx, record.UserID); err != nil {
		return err
	}

	s.audit.Record(ctx, record.UserID, "", "password_reset_completed", nil)
	return nil
}

// =============================
// Impersonation
// =============================

// Impersonate issues a short-lived access token for the target user,
// stamped with the acting admin's id. No refresh token: impersonation
// sessions re-escalate instead of persisting. The target lookup runs
// through the tenancy guard, so a target in another tenant is
// indistinguishable from one that does not exist.
func (s *service) Impersonate(ctx context.Context, actor *User, targetUserID string) (string, error) {
	target, err := s.repo.FindByID(ctx, targetUserID)
	if err != nil {
		return "", err
	}
	if target == nil || target.TenantID != actor.TenantID {
		return "", apperror.ErrNotFound
	}

	token, err := s.signAccessToken(target, actor.ID, s.impersonationTTL)
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, actor.ID, actor.TenantID, "impersonation_issued", map[string]interface{}{
		"target_user_id": target.ID,
	})
	return token, nil
}

// =============================
// Lookups
// =============================

func (s *service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListByTenant(ctx)
}

// parseSubject verifies a token's signature and expiry and returns its
// subject claim.
func (s *service) parseSubject(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperror.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", apperror.ErrInvalidToken
	}
	return sub, nil
}
