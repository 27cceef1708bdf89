package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const TypeAppointmentCompleted = "appointment.completed"

// Completed is published once an appointment reaches completed. The loyalty
// module consumes it.
type Completed struct {
	EventID        string          `json:"event_id"`
	OrganizationID uint            `json:"organization_id"`
	AppointmentID  uint            `json:"appointment_id"`
	ClientID       uint            `json:"client_id"`
	ProfessionalID uint            `json:"professional_id"`
	ServiceID      uint            `json:"service_id"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Paid           bool            `json:"paid"`
	CompletedAt    time.Time       `json:"completed_at"`
}

type CompletionHook interface {
	AppointmentCompleted(ctx context.Context, ev Completed) error
}

type NoopHook struct{}

func (NoopHook) AppointmentCompleted(context.Context, Completed) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaHook publishes completions keyed by appointment, so every event of
// one appointment lands on the same partition.
type KafkaHook struct {
	writer messageWriter
	topic  string
}

func NewKafkaHook(brokers []string, topic string) *KafkaHook {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})
	return &KafkaHook{writer: writer, topic: topic}
}

func (h *KafkaHook) AppointmentCompleted(ctx context.Context, ev Completed) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: h.topic,
		Key:   []byte(strconv.FormatUint(uint64(ev.AppointmentID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.EventID)},
			{Key: "event_type", Value: []byte(TypeAppointmentCompleted)},
			{Key: "organization_id", Value: []byte(strconv.FormatUint(uint64(ev.OrganizationID), 10))},
		},
	}

	if err := h.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TypeAppointmentCompleted, err)
	}
	return nil
}

func (h *KafkaHook) Close() error {
	return h.writer.Close()
}
