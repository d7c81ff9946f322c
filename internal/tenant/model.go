package tenant

import (
	"time"

	"gorm.io/datatypes"
)

// Tenant is the unit of data partitioning. The routing domain is unique
// and treated as immutable once the tenant is serving traffic; tenants
// are never deleted in normal operation.
type Tenant struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Domain           string         `gorm:"size:255;uniqueIndex;not null" json:"domain"`
	SubscriptionTier string         `gorm:"size:100;default:'standard'" json:"subscription_tier"`
	Settings         datatypes.JSON `json:"settings"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }
