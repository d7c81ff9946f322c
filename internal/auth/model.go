package auth

import (
	"time"
)

// Closed role set. Authorization is allow-list membership per route;
// there is no hierarchy between roles.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleAgent   = "AGENT"
	RoleViewer  = "VIEWER"
)

var validRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleAgent:   true,
	RoleViewer:  true,
}

func IsValidRole(role string) bool { return validRoles[role] }

// User belongs to exactly one tenant. Email is globally unique across
// tenants (login carries no tenant qualifier).
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	Role         string     `gorm:"size:20;not null;default:'AGENT'" json:"role"`
	TenantID     string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	FailedLogins int        `gorm:"default:0" json:"-"`
	LockedUntil  *time.Time `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// RefreshToken is the server-side record that makes a refresh token
// revocable. The JWT signature alone never authorizes a refresh; the
// row is authoritative.
type RefreshToken struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token      string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	Revoked    bool      `gorm:"default:false;index" json:"revoked"`
	ReplacedBy string    `gorm:"size:512" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// PasswordResetToken is single use: the row is deleted the moment the
// reset completes.
type PasswordResetToken struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}
