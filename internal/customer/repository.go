package customer

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	RecordBooking(ctx context.Context, id string, amount float64, bookedAt time.Time) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	where := tenancy.Scope(ctx, tenancy.ModelCustomer, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	where := tenancy.Scope(ctx, tenancy.ModelCustomer, nil)
	err := r.db.WithContext(ctx).Where(where).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelCustomer, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Model(&Customer{}).Where(where).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelCustomer, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Where(where).Delete(&Customer{})
	return res.RowsAffected, res.Error
}

// RecordBooking bumps the running spend counters after a booking lands.
func (r *repository) RecordBooking(ctx context.Context, id string, amount float64, bookedAt time.Time) error {
	where := tenancy.Scope(ctx, tenancy.ModelCustomer, map[string]interface{}{"id": id})
	return r.db.WithContext(ctx).Model(&Customer{}).Where(where).
		Updates(map[string]interface{}{
			"total_spent":       gorm.Expr("total_spent + ?", amount),
			"last_booking_date": bookedAt,
		}).Error
}
