package availability

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
)

// Source данные, которые читает движок. Service возвращает (nil, nil), если
// услуги нет.
type Source interface {
	WeeklyAvailability(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error)
	BlockedSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error)
	Appointments(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error)
	Service(ctx context.Context, serviceID uuid.UUID) (*model.Service, error)
}
