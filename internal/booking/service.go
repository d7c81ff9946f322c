package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/customer"
	"github.com/travelora/crm-backend/internal/tenancy"
	"github.com/travelora/crm-backend/internal/travelpackage"
)

type Service interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, status string, from, to *time.Time) ([]Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*Booking, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	customers customer.Repository
	packages  travelpackage.Repository
}

func NewService(repo Repository, customers customer.Repository, packages travelpackage.Repository) Service {
	return &service{repo: repo, customers: customers, packages: packages}
}

func (s *service) Create(ctx context.Context, b *Booking) (*Booking, error) {
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	if b.CustomerID == "" || b.PackageID == "" || b.TravelDate.IsZero() {
		return nil, apperror.ErrInvalidPayload
	}

	// Both references resolve through the guard; ids from another
	// tenant come back nil.
	cust, err := s.customers.FindByID(ctx, b.CustomerID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, apperror.ErrNotFound
	}
	pkg, err := s.packages.FindByID(ctx, b.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, apperror.ErrNotFound
	}

	b.ID = uuid.NewString()
	b.TenantID = tenantID
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaxCount <= 0 {
		b.PaxCount = 1
	}
	if b.TotalAmount == 0 {
		b.TotalAmount = pkg.BasePrice * float64(b.PaxCount)
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	if err := s.customers.RecordBooking(ctx, cust.ID, b.TotalAmount, time.Now().UTC()); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, status string, from, to *time.Time) ([]Booking, error) {
	return s.repo.List(ctx, status, from, to)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
	default:
		return nil, apperror.ErrInvalidPayload
	}

	affected, err := s.repo.Update(ctx, id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
