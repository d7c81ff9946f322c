package travelpackage

import (
	"context"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/tenancy"
)

type Service interface {
	Create(ctx context.Context, p *TravelPackage) (*TravelPackage, error)
	Get(ctx context.Context, id string) (*TravelPackage, error)
	List(ctx context.Context, destination string) ([]TravelPackage, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*TravelPackage, error)
	Delete(ctx context.Context, id string) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, p *TravelPackage) (*TravelPackage, error) {
	tenantID := tenancy.TenantID(ctx)
	if tenantID == "" {
		return nil, apperror.ErrForbidden
	}
	if p.Name == "" {
		return nil, apperror.ErrInvalidPayload
	}
	p.ID = uuid.NewString()
	p.TenantID = tenantID
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*TravelPackage, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.ErrNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, destination string) ([]TravelPackage, error) {
	return s.repo.List(ctx, destination)
}

func (s *service) Update(ctx context.Context, id string, updates map[string]interface{}) (*TravelPackage, error) {
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
