package deal

import "time"

// Pipeline stages; open-ended on purpose, these are just the defaults
// the UI seeds.
const (
	StageProspect    = "prospect"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

type Deal struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID          string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID        string     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Value             float64    `gorm:"type:decimal(12,2)" json:"value"`
	Stage             string     `gorm:"size:100;index" json:"stage"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	AssignedTo        string     `gorm:"type:uuid" json:"assigned_to,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Deal) TableName() string { return "deals" }
