package booking

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Booking struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID  string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	PackageID   string    `gorm:"type:uuid;not null;index" json:"package_id"`
	Status      string    `gorm:"size:100;default:'pending';index" json:"status"`
	TotalAmount float64   `gorm:"type:decimal(12,2)" json:"total_amount"`
	TravelDate  time.Time `json:"travel_date"`
	PaxCount    int       `gorm:"default:1" json:"pax_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
