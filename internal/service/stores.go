package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
)

// Интерфейсы хранилищ реализуют pgx репозитории из internal/repository.

type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	CountByRole(ctx context.Context) (map[model.Role]int, error)
}

type ServiceStore interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	GetByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]*model.Service, error)
	GetActive(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AvailabilityStore interface {
	Create(ctx context.Context, a *model.WeeklyAvailability) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyAvailability, error)
	GetByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]model.WeeklyAvailability, error)
	GetByProfessionalAndWeekday(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error)
	Update(ctx context.Context, a *model.WeeklyAvailability) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BlockedSlotStore interface {
	Create(ctx context.Context, b *model.BlockedSlot) error
	GetByProfessionalAndDate(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error)
	GetByProfessionalInRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.BlockedSlot, error)
	Delete(ctx context.Context, professionalID, id uuid.UUID) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetByProfessionalAndDate(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) ([]model.Appointment, error)
	GetByProfessionalID(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
	GetPendingByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]model.Appointment, error)
	GetDueForReminder(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	SetConfirmation(ctx context.Context, id uuid.UUID, c model.Confirmation) error
	CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error)
	Revenue(ctx context.Context) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.AppointmentNotification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.AppointmentNotification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByServiceID(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error)
	GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.Review, error)
	AverageForProfessional(ctx context.Context, professionalID uuid.UUID) (float64, int, error)
}
