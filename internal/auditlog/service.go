package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/travelora/crm-backend/internal/tenancy"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]AuditEvent, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AuditEvent, error) {
	return s.repo.List(ctx, filter)
}

// DirectRecorder writes audit events straight to the database. It is
// the recorder used when Kafka is not configured, so single-node
// deployments still keep a trail.
type DirectRecorder struct {
	repo Repository
}

func NewDirectRecorder(repo Repository) *DirectRecorder {
	return &DirectRecorder{repo: repo}
}

func (r *DirectRecorder) Record(ctx context.Context, userID, tenantID, action string, details map[string]interface{}) {
	event := &AuditEvent{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if details != nil {
		if ip, ok := details["ip"].(string); ok {
			event.IP = ip
		}
		if raw, err := json.Marshal(details); err == nil {
			event.Details = datatypes.JSON(raw)
		}
	}

	// The event names its own tenant; never let the request scope
	// rewrite the insert.
	insertCtx, cancel := context.WithTimeout(tenancy.Exempt(context.WithoutCancel(ctx)), 5*time.Second)
	defer cancel()
	if err := r.repo.Insert(insertCtx, event); err != nil {
		log.Printf("auditlog: insert failed: %v", err)
	}
}
