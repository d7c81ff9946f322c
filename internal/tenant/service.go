package tenant

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Service interface {
	Provision(ctx context.Context, in ProvisionInput) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
}

type ProvisionInput struct {
	Name             string
	Domain           string
	SubscriptionTier string
}

type service struct{ repo Repository }

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Provision(ctx context.Context, in ProvisionInput) (*Tenant, error) {
	domain := strings.ToLower(strings.TrimSpace(in.Domain))
	if in.Name == "" || domain == "" {
		return nil, apperror.ErrInvalidPayload
	}

	existing, err := s.repo.FindByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrInvalidTenant
	}

	tier := in.SubscriptionTier
	if tier == "" {
		tier = "standard"
	}

	t := &Tenant{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Domain:           domain,
		SubscriptionTier: tier,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return s.repo.FindByDomain(ctx, domain)
}

func (s *service) List(ctx context.Context) ([]Tenant, error) {
	return s.repo.List(ctx)
}
