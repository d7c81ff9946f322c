package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/lead"
	"github.com/travelora/crm-backend/internal/tenancy"
)

type Service interface {
	Create(ctx context.Context, c *Customer) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*Customer, error)
	Delete(ctx context.Context, id string) error
	ConvertLead(ctx context.Context, leadID string) (*Customer, error)
}

type service struct {
	repo  Repository
	leads lead.Repository
}

func NewService(repo Repository, leads lead.Repository) Service {
	return &service{repo: repo, leads: leads}
}

func (s *service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	// A linked lead must resolve inside the same tenant.
	if c.LeadID != "" {
		l, err := s.leads.FindByID(ctx, c.LeadID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, apperror.ErrNotFound
		}
	}
	c.ID = uuid.NewString()
	c.TenantID = tenantID
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ConvertLead promotes a qualified lead into a customer record.
func (s *service) ConvertLead(ctx context.Context, leadID string) (*Customer, error) {
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	l, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperror.ErrNotFound
	}

	c := &Customer{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		LeadID:   l.ID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if _, err := s.leads.Update(ctx, l.ID, map[string]interface{}{"status": lead.StatusQualified}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrNotFound
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, updates map[string]interface{}) (*Customer, error) {
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
