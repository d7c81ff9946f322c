package reports

import (
	"context"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	LeadRows(ctx context.Context) ([]LeadReportRow, error)
	DealRows(ctx context.Context) ([]DealReportRow, error)
	BookingRows(ctx context.Context) ([]BookingReportRow, error)
	Summary(ctx context.Context) (*Summary, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) LeadRows(ctx context.Context) ([]LeadReportRow, error) {
	var rows []LeadReportRow
	err := r.db.WithContext(ctx).Table(tenancy.ModelLead).
		Select("id, first_name || ' ' || last_name AS name, email, source, status, score, destination, budget, created_at").
		Where(tenancy.Scope(ctx, tenancy.ModelLead, nil)).
		Order("created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) DealRows(ctx context.Context) ([]DealReportRow, error) {
	var rows []DealReportRow
	err := r.db.WithContext(ctx).Table(tenancy.ModelDeal).
		Select("id, title, stage, value, probability, expected_close_date, created_at").
		Where(tenancy.Scope(ctx, tenancy.ModelDeal, nil)).
		Order("created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) BookingRows(ctx context.Context) ([]BookingReportRow, error) {
	q := r.db.WithContext(ctx).Table("bookings").
		Select("bookings.id, bookings.customer_id, travel_packages.name AS package_name, bookings.status, bookings.total_amount, bookings.travel_date, bookings.pax_count, bookings.created_at").
		Joins("LEFT JOIN travel_packages ON travel_packages.id = bookings.package_id")

	// The join makes bare column names ambiguous, so the guard's
	// predicate is re-qualified against the bookings table.
	for k, v := range tenancy.Scope(ctx, tenancy.ModelBooking, nil) {
		q = q.Where("bookings."+k+" = ?", v)
	}

	var rows []BookingReportRow
	err := q.Order("bookings.travel_date DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{
		LeadsByStatus:    map[string]int64{},
		PipelineByStage:  map[string]float64{},
		BookingsByStatus: map[string]int64{},
	}

	type countRow struct {
		Key   string
		Count int64
		Total float64
	}

	var leadRows []countRow
	if err := r.db.WithContext(ctx).Table(tenancy.ModelLead).
		Select("status AS key, COUNT(*) AS count").
		Where(tenancy.Scope(ctx, tenancy.ModelLead, nil)).
		Group("status").Scan(&leadRows).Error; err != nil {
		return nil, err
	}
	for _, row := range leadRows {
		s.LeadsByStatus[row.Key] = row.Count
	}

	var dealRows []countRow
	if err := r.db.WithContext(ctx).Table(tenancy.ModelDeal).
		Select("stage AS key, COALESCE(SUM(value), 0) AS total").
		Where(tenancy.Scope(ctx, tenancy.ModelDeal, nil)).
		Group("stage").Scan(&dealRows).Error; err != nil {
		return nil, err
	}
	for _, row := range dealRows {
		s.PipelineByStage[row.Key] = row.Total
	}

	var bookingRows []countRow
	if err := r.db.WithContext(ctx).Table(tenancy.ModelBooking).
		Select("status AS key, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Where(tenancy.Scope(ctx, tenancy.ModelBooking, nil)).
		Group("status").Scan(&bookingRows).Error; err != nil {
		return nil, err
	}
	for _, row := range bookingRows {
		s.BookingsByStatus[row.Key] = row.Count
		if row.Key != "cancelled" {
			s.TotalRevenue += row.Total
		}
	}

	return s, nil
}
