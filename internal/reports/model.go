package reports

import "time"

const (
	ReportTypeLeads    = "leads"
	ReportTypeDeals    = "deals"
	ReportTypeBookings = "bookings"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

type LeadReportRow struct {
	ID          string
	Name        string
	Email       string
	Source      string
	Status      string
	Score       int
	Destination string
	Budget      float64
	CreatedAt   time.Time
}

type DealReportRow struct {
	ID                string
	Title             string
	Stage             string
	Value             float64
	Probability       int
	ExpectedCloseDate *time.Time
	CreatedAt         time.Time
}

type BookingReportRow struct {
	ID          string
	CustomerID  string
	PackageName string
	Status      string
	TotalAmount float64
	TravelDate  time.Time
	PaxCount    int
	CreatedAt   time.Time
}

// ReportData bundles the rows a single export call may need.
type ReportData struct {
	Leads    []LeadReportRow
	Deals    []DealReportRow
	Bookings []BookingReportRow
}

// Summary is the dashboard aggregate for the current tenant.
type Summary struct {
	LeadsByStatus    map[string]int64   `json:"leads_by_status"`
	PipelineByStage  map[string]float64 `json:"pipeline_by_stage"`
	BookingsByStatus map[string]int64   `json:"bookings_by_status"`
	TotalRevenue     float64            `json:"total_revenue"`
}
