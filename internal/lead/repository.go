package lead

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, l *Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	where := tenancy.Scope(ctx, tenancy.ModelLead, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	where := map[string]interface{}{}
	if filter.Status != "" {
		where["status"] = filter.Status
	}
	if filter.Source != "" {
		where["source"] = filter.Source
	}
	if filter.AssignedTo != "" {
		where["assigned_to"] = filter.AssignedTo
	}

	q := r.db.WithContext(ctx).Where(tenancy.Scope(ctx, tenancy.ModelLead, where))
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR destination ILIKE ?",
			like, like, like, like)
	}

	var leads []Lead
	err := q.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelLead, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Model(&Lead{}).Where(where).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelLead, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Where(where).Delete(&Lead{})
	return res.RowsAffected, res.Error
}
