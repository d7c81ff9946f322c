package lead

import (
	"time"
)

// Lead statuses form a small closed funnel.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusLost      = "lost"
)

type Lead struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone"`
	FirstName   string    `gorm:"size:100" json:"first_name"`
	LastName    string    `gorm:"size:100" json:"last_name"`
	Source      string    `gorm:"size:100;index" json:"source"`
	Status      string    `gorm:"size:50;default:'new';index" json:"status"`
	Score       int       `gorm:"default:0" json:"score"`
	AssignedTo  string    `gorm:"type:uuid" json:"assigned_to,omitempty"`
	Destination string    `gorm:"size:255" json:"destination"`
	TravelDates string    `gorm:"size:255" json:"travel_dates"`
	Budget      float64   `gorm:"type:decimal(12,2)" json:"budget"`
	Adults      int       `gorm:"default:1" json:"adults"`
	Children    int       `gorm:"default:0" json:"children"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

// ListFilter narrows a tenant's lead listing; the tenant predicate
// itself is injected by the tenancy guard, never by callers.
type ListFilter struct {
	Status     string
	Source     string
	AssignedTo string
	Search     string
}
