package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ListByTenant(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Lockout bookkeeping. IncrementFailedLogins is a single atomic
	// statement returning the new count so concurrent failures cannot
	// race past the threshold.
	IncrementFailedLogins(ctx context.Context, userID string) (int, error)
	LockUntil(ctx context.Context, userID string, until time.Time) error
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	CreateRefreshToken(ctx context.Context, rt *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RotateRefreshToken(ctx context.Context, old *RefreshToken, next *RefreshToken) error
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)

	CreateResetToken(ctx context.Context, prt *PasswordResetToken) error
	FindResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
	DeleteResetToken(ctx context.Context, id string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail runs through the tenancy guard like every other user
// lookup. During login no tenant is in scope yet, so the lookup is
// global, which is what a tenant-unqualified login needs.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	where := tenancy.Scope(ctx, tenancy.ModelUser, map[string]interface{}{"email": email})
	err := r.db.WithContext(ctx).Where(where).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	where := tenancy.Scope(ctx, tenancy.ModelUser, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *repository) ListByTenant(ctx context.Context) ([]User, error) {
	var users []User
	where := tenancy.Scope(ctx, tenancy.ModelUser, map[string]interface{}{})
	err := r.db.WithContext(ctx).Where(where).Order("created_at").Find(&users).Error
	return users, err
}

func (r *repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *repository) IncrementFailedLogins(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(
		"UPDATE users SET failed_logins = failed_logins + 1 WHERE id = ? RETURNING failed_logins",
		userID,
	).Scan(&count).Error
	return count, err
}

func (r *repository) LockUntil(ctx context.Context, userID string, until time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("locked_until", until).Error
}

func (r *repository) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_logins": 0,
			"locked_until":  nil,
			"last_login":    at,
		}).Error
}

func (r *repository) CreateRefreshToken(ctx context.Context, rt *RefreshToken) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *repository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rt, err
}

// RotateRefreshToken revokes old and records next in one transaction so
// the old token can never again authorize a refresh once its successor
// exists.
func (r *repository) RotateRefreshToken(ctx context.Context, old *RefreshToken, next *RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&RefreshToken{}).
			Where("id = ? AND revoked = ?", old.ID, false).
			Updates(map[string]interface{}{
				"revoked":     true,
				"replaced_by": next.Token,
			})
		if res.Error != nil {
			return res.Error
		}
		// A concurrent refresh already rotated this token; treat it the
		// same as presenting a revoked token.
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(next).Error
	})
}

func (r *repository) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	return res.RowsAffected, res.Error
}

func (r *repository) CreateResetToken(ctx context.Context, prt *PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(prt).Error
}

func (r *repository) FindResetToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	var prt PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&prt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &prt, err
}

func (r *repository) DeleteResetToken(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&PasswordResetToken{}, "id = ?", id).Error
}
