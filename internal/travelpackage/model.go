package travelpackage

import "time"

// TravelPackage is the tenant's sellable catalogue entry. Duration is
// in nights.
type TravelPackage struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	BasePrice   float64   `gorm:"type:decimal(12,2)" json:"base_price"`
	Duration    int       `json:"duration"`
	Destination string    `gorm:"size:255;index" json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TravelPackage) TableName() string { return "travel_packages" }
