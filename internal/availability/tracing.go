package availability

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Freeeeeet/booking_platform/internal/availability"

// TracedSource оборачивает каждое чтение Source в span.
type TracedSource struct {
	next   Source
	tracer trace.Tracer
}

func NewTracedSource(next Source) *TracedSource {
	return &TracedSource{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *TracedSource) start(ctx context.Context, name string, professionalID uuid.UUID, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("professional.id", professionalID.String()))
	return s.tracer.Start(ctx, "availability."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *TracedSource) WeeklyAvailability(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	ctx, span := s.start(ctx, "WeeklyAvailability", professionalID, attribute.Int("weekday", weekday))
	rules, err := s.next.WeeklyAvailability(ctx, professionalID, weekday)
	span.SetAttributes(attribute.Int("rules", len(rules)))
	finish(span, err)
	return rules, err
}

func (s *TracedSource) BlockedSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	ctx, span := s.start(ctx, "BlockedSlots", professionalID, attribute.String("date", date.Format(DateLayout)))
	blocks, err := s.next.BlockedSlots(ctx, professionalID, date)
	span.SetAttributes(attribute.Int("blocks", len(blocks)))
	finish(span, err)
	return blocks, err
}

func (s *TracedSource) Appointments(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	ctx, span := s.start(ctx, "Appointments", professionalID, attribute.String("date", date.Format(DateLayout)))
	appointments, err := s.next.Appointments(ctx, professionalID, date, exclude...)
	span.SetAttributes(attribute.Int("appointments", len(appointments)))
	finish(span, err)
	return appointments, err
}

func (s *TracedSource) Service(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	ctx, span := s.tracer.Start(ctx, "availability.Service", trace.WithAttributes(attribute.String("service.id", serviceID.String())))
	service, err := s.next.Service(ctx, serviceID)
	span.SetAttributes(attribute.Bool("found", service != nil))
	finish(span, err)
	return service, err
}
