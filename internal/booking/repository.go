package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, status string, from, to *time.Time) ([]Booking, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	where := tenancy.Scope(ctx, tenancy.ModelBooking, map[string]interface{}{"id": id})
	err := r.db.WithContext(ctx).Where(where).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *repository) List(ctx context.Context, status string, from, to *time.Time) ([]Booking, error) {
	where := map[string]interface{}{}
	if status != "" {
		where["status"] = status
	}

	q := r.db.WithContext(ctx).Where(tenancy.Scope(ctx, tenancy.ModelBooking, where))
	if from != nil {
		q = q.Where("travel_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("travel_date <= ?", *to)
	}

	var bookings []Booking
	err := q.Order("travel_date ASC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelBooking, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Model(&Booking{}).Where(where).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	where := tenancy.Scope(ctx, tenancy.ModelBooking, map[string]interface{}{"id": id})
	res := r.db.WithContext(ctx).Where(where).Delete(&Booking{})
	return res.RowsAffected, res.Error
}
