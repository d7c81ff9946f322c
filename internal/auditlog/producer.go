package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer publishes audit events to Kafka. It satisfies the recorder
// interface the auth service depends on. A nil Producer is a valid
// no-op recorder, so wiring stays simple when Kafka is not configured.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Record serializes the event and writes it to the audit topic. Failures
// are logged and swallowed; audit delivery must never fail the request
// that produced the event.
func (p *Producer) Record(ctx context.Context, userID, tenantID, action string, details map[string]interface{}) {
	if p == nil || p.writer == nil {
		return
	}

	msg := Message{
		TenantID:  tenantID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if details != nil {
		if ip, ok := details["ip"].(string); ok {
			msg.IP = ip
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("auditlog: marshal failed: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(tenantID),
		Value: payload,
	}); err != nil {
		log.Printf("auditlog: kafka write failed: %v", err)
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
