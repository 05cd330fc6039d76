// Package events исходящие события о записях. События уходят в Sink, доставку
// выполняет его транспорт.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	AppointmentCreated   Type = "appointment.created"
	AppointmentConfirmed Type = "appointment.confirmed"
	AppointmentCancelled Type = "appointment.cancelled"
	AppointmentCompleted Type = "appointment.completed"
	AppointmentNoShow    Type = "appointment.no_show"
	AppointmentReminder  Type = "appointment.reminder"
	ReviewCreated        Type = "review.created"
)

type Event struct {
	ID            uuid.UUID         `json:"id"`
	Type          Type              `json:"type"`
	UserID        uuid.UUID         `json:"user_id"`
	AppointmentID uuid.UUID         `json:"appointment_id"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// New создаёт событие с новым ID и текущим временем.
func New(typ Type, userID, appointmentID uuid.UUID, title, message string) Event {
	return Event{
		ID:            uuid.New(),
		Type:          typ,
		UserID:        userID,
		AppointmentID: appointmentID,
		Title:         title,
		Message:       message,
		OccurredAt:    time.Now().UTC(),
	}
}

type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// SinkFunc функция как Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Emit(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Multi отправляет событие во все sink и объединяет ошибки.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop отбрасывает события.
type Nop struct{}

func (Nop) Emit(context.Context, Event) error { return nil }
