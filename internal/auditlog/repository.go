package auditlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Repository interface {
	Insert(ctx context.Context, e *AuditEvent) error
	List(ctx context.Context, filter ListFilter) ([]AuditEvent, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Insert(ctx context.Context, e *AuditEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]AuditEvent, error) {
	where := map[string]interface{}{}
	if filter.UserID != "" {
		where["user_id"] = filter.UserID
	}
	if filter.Action != "" {
		where["action"] = filter.Action
	}

	q := r.db.WithContext(ctx).Where(tenancy.Scope(ctx, tenancy.ModelAuditEvent, where))
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var events []AuditEvent
	err := q.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}
