package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	appointments AppointmentStore
	services     ServiceStore
	availability *AvailabilityService
	notifier     *NotificationService
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	appointments AppointmentStore,
	services ServiceStore,
	availability *AvailabilityService,
	notifier *NotificationService,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		services:     services,
		availability: availability,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// BookAppointment записывает текущего пользователя на услугу в startsAt. startsAt
// должен быть свободным слотом движка. Одновременную запись на то же время
// отклоняет уникальный индекс appointments.
func (s *BookingService) BookAppointment(ctx context.Context, serviceID uuid.UUID, startsAt time.Time, notes string) (*model.Appointment, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}

	startsAt = wallClock(startsAt).Truncate(time.Minute)
	if startsAt.Before(wallClock(s.now())) {
		return nil, ErrPastDate
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}
	if svc.ProfessionalID == a.ProfileID {
		return nil, ErrSelfBooking
	}

	ok, err := s.availability.IsSlotAvailable(ctx, svc.ProfessionalID, startsAt, serviceID)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}

	appt := &model.Appointment{
		ProfessionalID:  svc.ProfessionalID,
		ClientID:        a.ProfileID,
		ServiceID:       svc.ID,
		StartsAt:        startsAt,
		Status:          model.AppointmentStatusPending,
		Notes:           notes,
		DurationMinutes: svc.DurationMinutes,
		Service:         svc,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("client_id", a.ProfileID.String()),
		zap.String("professional_id", svc.ProfessionalID.String()),
		zap.String("service", svc.Name),
		zap.Time("starts_at", startsAt),
	)

	s.notify(ctx, appt.ProfessionalID, appt, model.NotificationNewBooking, "Новая запись", "Новая запись: "+describe(appt))

	return appt, nil
}

func (s *BookingService) notify(ctx context.Context, userID uuid.UUID, a *model.Appointment, kind model.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyKind(ctx, userID, a, kind, title, message); err != nil {
		s.logger.Warn("Failed to notify",
			zap.String("appointment_id", a.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *BookingService) load(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// professionalAppointment загружает запись, которой управляет текущий специалист.
func (s *BookingService) professionalAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(a, appt.ProfessionalID) {
		return nil, ErrNotOwner
	}
	return appt, nil
}

// Confirm подтверждает запись.
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.professionalAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed); err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	appt.Status = model.AppointmentStatusConfirmed

	s.logger.Info("Appointment confirmed", zap.String("appointment_id", id.String()))
	s.notify(ctx, appt.ClientID, appt, model.NotificationConfirmation, "Запись подтверждена", "Подтверждена: "+describe(appt))

	return appt, nil
}

// Cancel отменяет активную запись от имени клиента или специалиста и уведомляет
// другую сторону.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var counterpart uuid.UUID
	switch {
	case a.ProfileID == appt.ClientID:
		counterpart = appt.ProfessionalID
	case owns(a, appt.ProfessionalID):
		counterpart = appt.ClientID
	default:
		return nil, ErrNotOwner
	}
	if !appt.IsActive() {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCancelled); err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	appt.Status = model.AppointmentStatusCancelled

	s.logger.Info("Appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("by", a.ProfileID.String()),
	)
	s.notify(ctx, counterpart, appt, model.NotificationCancellation, "Запись отменена", "Отменена: "+describe(appt))

	return appt, nil
}

// Complete отмечает визит как состоявшийся.
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.professionalAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsActive() {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if err := s.appointments.SetConfirmation(ctx, id, model.ConfirmationConfirmed); err != nil {
		return nil, fmt.Errorf("set appointment confirmation: %w", err)
	}
	appt.Status = model.AppointmentStatusCompleted
	appt.Confirmation = model.ConfirmationConfirmed

	s.logger.Info("Appointment completed", zap.String("appointment_id", id.String()))

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, appt.ClientID, appt, model.NotificationConfirmation, events.AppointmentCompleted,
			"Appointment completed", "Completed: "+describe(appt)+". You can leave a review.")
		if err != nil {
			s.logger.Warn("Failed to notify", zap.String("appointment_id", id.String()), zap.Error(err))
		}
	}

	return appt, nil
}

// MarkNoShow закрывает запись, если клиент не пришёл.
func (s *BookingService) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.professionalAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsActive() {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.SetConfirmation(ctx, id, model.ConfirmationNoShow); err != nil {
		return nil, fmt.Errorf("set appointment confirmation: %w", err)
	}
	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	appt.Status = model.AppointmentStatusCompleted
	appt.Confirmation = model.ConfirmationNoShow

	s.logger.Info("Appointment marked no-show", zap.String("appointment_id", id.String()))
	s.notify(ctx, appt.ClientID, appt, model.NotificationNoShow, "Пропущенный визит", "Отмечена неявка: "+describe(appt))

	return appt, nil
}

// ListForClient возвращает записи пользователя, новые первыми.
func (s *BookingService) ListForClient(ctx context.Context) ([]model.Appointment, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetByClientID(ctx, a.ProfileID)
}

// ListUpcomingForClient возвращает будущие активные записи, ближайшие первыми.
func (s *BookingService) ListUpcomingForClient(ctx context.Context) ([]model.Appointment, error) {
	all, err := s.ListForClient(ctx)
	if err != nil {
		return nil, err
	}
	return upcoming(all, wallClock(s.now())), nil
}

// ListForProfessional возвращает записи специалиста в [from, to).
func (s *BookingService) ListForProfessional(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetByProfessionalID(ctx, a.ProfileID, from, to)
}

func (s *BookingService) ListPending(ctx context.Context) ([]model.Appointment, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetPendingByProfessionalID(ctx, a.ProfileID)
}

func upcoming(all []model.Appointment, now time.Time) []model.Appointment {
	out := make([]model.Appointment, 0, len(all))
	for _, a := range all {
		if a.IsActive() && !a.StartsAt.Before(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}
