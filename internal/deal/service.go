package deal

import (
	"context"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/customer"
	"github.com/travelora/crm-backend/internal/tenancy"
)

type Service interface {
	Create(ctx context.Context, d *Deal) (*Deal, error)
	Get(ctx context.Context, id string) (*Deal, error)
	List(ctx context.Context, stage string) ([]Deal, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*Deal, error)
	Delete(ctx context.Context, id string) error
	Pipeline(ctx context.Context) (map[string]float64, error)
}

type service struct {
	repo      Repository
	customers customer.Repository
}

func NewService(repo Repository, customers customer.Repository) Service {
	return &service{repo: repo, customers: customers}
}

func (s *service) Create(ctx context.Context, d *Deal) (*Deal, error) {
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	if d.Title == "" || d.CustomerID == "" {
		return nil, apperror.ErrInvalidPayload
	}
	// The customer lookup runs through the guard, so a customer id from
	// another tenant comes back nil here.
	cust, err := s.customers.FindByID(ctx, d.CustomerID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, apperror.ErrNotFound
	}

	d.ID = uuid.NewString()
	d.TenantID = tenantID
	if d.Stage == "" {
		d.Stage = StageProspect
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, id string) (*Deal, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.ErrNotFound
	}
	return d, nil
}

func (s *service) List(ctx context.Context, stage string) ([]Deal, error) {
	return s.repo.List(ctx, stage)
}

func (s *service) Update(ctx context.Context, id string, updates map[string]interface{}) (*Deal, error) {
	delete(updates, "tenant_id")
	delete(updates, "id")

	affected, err := s.repo.Update(ctx, id, updates)
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

func (s *service) Pipeline(ctx context.Context) (map[string]float64, error) {
	return s.repo.PipelineValue(ctx)
}
