package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/availability"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// repositorySource адаптирует хранилища к availability.Source.
type repositorySource struct {
	rules        AvailabilityStore
	blocks       BlockedSlotStore
	appointments AppointmentStore
	services     ServiceStore
}

func NewRepositorySource(rules AvailabilityStore, blocks BlockedSlotStore, appointments AppointmentStore, services ServiceStore) availability.Source {
	return &repositorySource{
		rules:        rules,
		blocks:       blocks,
		appointments: appointments,
		services:     services,
	}
}

func (s *repositorySource) WeeklyAvailability(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	return s.rules.GetByProfessionalAndWeekday(ctx, professionalID, weekday)
}

func (s *repositorySource) BlockedSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	return s.blocks.GetByProfessionalAndDate(ctx, professionalID, date)
}

func (s *repositorySource) Appointments(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	return s.appointments.GetByProfessionalAndDate(ctx, professionalID, date, exclude...)
}

func (s *repositorySource) Service(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	return s.services.GetByID(ctx, serviceID)
}

type AvailabilityConfig struct {
	Step         time.Duration
	Policy       availability.ConflictPolicy
	FetchTimeout time.Duration
	Retry        availability.RetryConfig
}

func DefaultAvailabilityConfig() AvailabilityConfig {
	return AvailabilityConfig{
		Step:   availability.DefaultStep,
		Policy: availability.ConflictExactStart,
		Retry:  availability.DefaultRetryConfig(),
	}
}

// AvailabilityService отвечает на запросы слотов. Чтения трассируются, временные
// ошибки повторяются до движка.
type AvailabilityService struct {
	engine *availability.Engine
	logger *zap.Logger
}

func NewAvailabilityService(source availability.Source, cfg AvailabilityConfig, logger *zap.Logger) *AvailabilityService {
	decorated := availability.NewRetryingSource(availability.NewTracedSource(source), cfg.Retry)

	return &AvailabilityService{
		engine: availability.NewEngine(decorated,
			availability.WithStep(cfg.Step),
			availability.WithConflictPolicy(cfg.Policy),
			availability.WithFetchTimeout(cfg.FetchTimeout),
		),
		logger: logger,
	}
}

// GetAvailableSlots возвращает слоты услуги на день. Пустой срез значит, что
// специалист не работает или услуга недоступна.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, professionalID uuid.UUID, date time.Time, serviceID uuid.UUID) ([]model.Slot, error) {
	slots, err := s.engine.ComputeAvailableSlots(ctx, professionalID, date, serviceID)
	if err != nil {
		fields := []zap.Field{
			zap.String("professional_id", professionalID.String()),
			zap.String("service_id", serviceID.String()),
			zap.String("date", date.Format(availability.DateLayout)),
			zap.Error(err),
		}
		var dataErr *availability.DataAccessError
		if errors.As(err, &dataErr) {
			s.logger.Warn("Availability data access failed", append(fields, zap.String("op", dataErr.Op))...)
		} else {
			s.logger.Debug("Availability request rejected", fields...)
		}
		return nil, err
	}
	return slots, nil
}

// IsSlotAvailable проверяет, свободен ли слот с началом startsAt.
func (s *AvailabilityService) IsSlotAvailable(ctx context.Context, professionalID uuid.UUID, startsAt time.Time, serviceID uuid.UUID) (bool, error) {
	slots, err := s.GetAvailableSlots(ctx, professionalID, startsAt, serviceID)
	if err != nil {
		return false, err
	}
	at := model.TimeOfDayOf(startsAt)
	for _, slot := range slots {
		if slot.Time == at {
			return slot.Available, nil
		}
	}
	return false, nil
}
