package lead

import (
	"context"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/tenancy"
)

type Service interface {
	Create(ctx context.Context, l *Lead) (*Lead, error)
	Get(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, l *Lead) (*Lead, error) {
	// Creation is only legal inside a tenant context; the row's owner is
	// the context's tenant, never caller-supplied.
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	l.ID = uuid.NewString()
	l.TenantID = tenantID
	if l.Status == "" {
		l.Status = StatusNew
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get collapses "absent" and "belongs to another tenant" into the same
// not-found answer.
func (s *service) Get(ctx context.Context, id string) (*Lead, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperror.ErrNotFound
	}
	return l, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, updates map[string]interface{}) (*Lead, error) {
	delete(updates, "tenant_id") // ownership never changes
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
