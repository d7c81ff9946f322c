package deal

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	FindByID(ctx context.Context, id string) (*Deal, error)
	List(ctx context.Context, stage string) ([]Deal, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	PipelineValue(ctx context.Context) (map[string]float64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, d *Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Deal, error) {
	var d Deal
	where := tenancy.Scope(ctx, tenancy.ModelDeal, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &d, err
}

func (r *repository) List(ctx context.Context, stage string) ([]Deal, error) {
	where := map[string]interface{}{}
	if stage != "" {
		where["stage"] = stage
	}

	var deals []Deal
	err := r.db.WithContext(ctx).
		Where(tenancy.Scope(ctx, tenancy.ModelDeal, where)).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelDeal, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Model(&Deal{}).Where(where).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelDeal, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Where(where).Delete(&Deal{})
	return res.RowsAffected, res.Error
}

// PipelineValue totals open deal value per stage for the current tenant.
func (r *repository) PipelineValue(ctx context.Context) (map[string]float64, error) {
	type row struct {
		Stage string
		Total float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Deal{}).
		Select("stage, COALESCE(SUM(value), 0) AS total").
		Where(tenancy.Scope(ctx, tenancy.ModelDeal, nil)).
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for _, rw := range rows {
		out[rw.Stage] = rw.Total
	}
	return out, nil
}
