package customer

import "time"

type Customer struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LeadID          string     `gorm:"type:uuid" json:"lead_id,omitempty"`
	CustomerType    string     `gorm:"size:100" json:"customer_type"`
	LoyaltyLevel    string     `gorm:"size:100" json:"loyalty_level"`
	TotalSpent      float64    `gorm:"type:decimal(12,2);default:0" json:"total_spent"`
	LastBookingDate *time.Time `json:"last_booking_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
