package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded by the auth flows. CRUD handlers may record their
// own free-form actions on top of these.
const (
	ActionLoginSuccess           = "login_success"
	ActionLoginFailed            = "login_failed"
	ActionAccountLocked          = "account_locked"
	ActionTokenReuseDetected     = "token_reuse_detected"
	ActionPasswordResetRequested = "password_reset_requested"
	ActionPasswordResetCompleted = "password_reset_completed"
	ActionImpersonationIssued    = "impersonation_issued"
)

type AuditEvent struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string         `gorm:"type:uuid;index" json:"tenant_id"`
	UserID    string         `gorm:"type:uuid;index" json:"user_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details,omitempty"`
	IP        string         `gorm:"size:64" json:"ip,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string { return "audit_events" }

// Message is the wire form published to Kafka by the recorder and
// consumed by the persistence worker.
type Message struct {
	TenantID  string                 `json:"tenant_id"`
	UserID    string                 `json:"user_id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IP        string                 `json:"ip,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ListFilter struct {
	UserID string
	Action string
	Since  *time.Time
	Limit  int
}
