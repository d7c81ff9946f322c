package travelpackage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, p *TravelPackage) error
	FindByID(ctx context.Context, id string) (*TravelPackage, error)
	List(ctx context.Context, destination string) ([]TravelPackage, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, p *TravelPackage) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TravelPackage, error) {
	var p TravelPackage
	where := tenancy.Scope(ctx, tenancy.ModelTravelPackage, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *repository) List(ctx context.Context, destination string) ([]TravelPackage, error) {
	where := map[string]interface{}{}
	if destination != "" {
		where["destination"] = destination
	}

	var packages []TravelPackage
	err := r.db.WithContext(ctx).
		Where(tenancy.Scope(ctx, tenancy.ModelTravelPackage, where)).
		Order("name ASC").
		Find(&packages).Error
	return packages, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelTravelPackage, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Model(&TravelPackage{}).Where(where).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelTravelPackage, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Where(where).Delete(&TravelPackage{})
	return res.RowsAffected, res.Error
}
