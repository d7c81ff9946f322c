package reports

import (
	"context"
	"fmt"
)

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Export(ctx context.Context, reportType, format string) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	exporter Exporter
}

func NewService(repo Repository, exporter Exporter) Service {
	return &service{repo: repo, exporter: exporter}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

// Export fetches the tenant's rows and hands them to the exporter. Row
// queries run through the tenancy guard like any other read, so an
// export can never leak another tenant's data.
func (s *service) Export(ctx context.Context, reportType, format string) ([]byte, string, string, error) {
	var data ReportData
	var err error

	switch reportType {
	case ReportTypeLeads:
		data.Leads, err = s.repo.LeadRows(ctx)
	case ReportTypeDeals:
		data.Deals, err = s.repo.DealRows(ctx)
	case ReportTypeBookings:
		data.Bookings, err = s.repo.BookingRows(ctx)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
	if err != nil {
		return nil, "", "", err
	}

	return s.exporter.Export(reportType, format, data)
}
