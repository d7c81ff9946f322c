package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"gorm.io/datatypes"

	"github.com/travelora/crm-backend/internal/tenancy"
)

// StartConsumer drains the audit topic into audit_events. It runs until
// ctx is cancelled and is meant to be launched once from main.
func StartConsumer(ctx context.Context, brokers []string, topic, groupID string, repo Repository) {
	if len(brokers) == 0 || topic == "" {
		log.Println("auditlog: kafka not configured, consumer disabled")
		return
	}
	if groupID == "" {
		groupID = "crm-audit-writer"
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	// Inserts run outside any request scope; the event carries its own
	// tenant id, so the guard must not rewrite the insert path.
	ctx = tenancy.Exempt(ctx)

	log.Printf("auditlog: consuming %s (group %s)", topic, groupID)
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("auditlog: consumer stopped")
				return
			}
			log.Printf("auditlog: kafka read error: %v", err)
			continue
		}

		var msg Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("auditlog: dropping malformed event: %v", err)
			continue
		}

		event := &AuditEvent{
			ID:        uuid.NewString(),
			TenantID:  msg.TenantID,
			UserID:    msg.UserID,
			Action:    msg.Action,
			IP:        msg.IP,
			CreatedAt: msg.CreatedAt,
		}
		if msg.Details != nil {
			if raw, err := json.Marshal(msg.Details); err == nil {
				event.Details = datatypes.JSON(raw)
			}
		}
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now().UTC()
		}

		insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := repo.Insert(insertCtx, event); err != nil {
			log.Printf("auditlog: insert failed: %v", err)
		}
		cancel()
	}
}
