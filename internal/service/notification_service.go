package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ReminderLead         = 24 * time.Hour
	defaultNotifications = 20
)

// wallClock переносит местное время t в UTC без сдвига, так хранится начало записи.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func describe(a *model.Appointment) string {
	name := "запись"
	if a.Service != nil && a.Service.Name != "" {
		name = a.Service.Name
	}
	return fmt.Sprintf("%s, %s", name, a.StartsAt.Format("02.01.2006 15:04"))
}

// NotificationService сохраняет уведомления и отправляет события.
type NotificationService struct {
	notifications NotificationStore
	appointments  AppointmentStore
	sink          events.Sink
	logger        *zap.Logger
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore, appointments AppointmentStore, sink events.Sink, logger *zap.Logger) *NotificationService {
	if sink == nil {
		sink = events.Nop{}
	}
	return &NotificationService{
		notifications: notifications,
		appointments:  appointments,
		sink:          sink,
		logger:        logger,
		now:           time.Now,
	}
}

var notificationEvents = map[model.NotificationType]events.Type{
	model.NotificationNewBooking:   events.AppointmentCreated,
	model.NotificationConfirmation: events.AppointmentConfirmed,
	model.NotificationCancellation: events.AppointmentCancelled,
	model.NotificationReminder:     events.AppointmentReminder,
	model.NotificationNoShow:       events.AppointmentNoShow,
}

// Notify сохраняет уведомление для userID о записи a и отправляет событие typ.
// Ошибка отправки оборачивается в ErrDelivery, уведомление остаётся сохранённым.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, a *model.Appointment, kind model.NotificationType, typ events.Type, title, message string) error {
	n := &model.AppointmentNotification{
		UserID:        userID,
		AppointmentID: a.ID,
		Type:          kind,
		Title:         title,
		Message:       message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	e := events.New(typ, userID, a.ID, title, message)
	e.Attributes = map[string]string{
		"notification_id": n.ID.String(),
		"starts_at":       a.StartsAt.Format(time.RFC3339),
	}
	if a.Service != nil {
		e.Attributes["service"] = a.Service.Name
	}
	if err := s.sink.Emit(ctx, e); err != nil {
		return fmt.Errorf("emit %s: %w: %w", typ, ErrDelivery, err)
	}
	return nil
}

// NotifyKind вызывает Notify с типом события по виду уведомления.
func (s *NotificationService) NotifyKind(ctx context.Context, userID uuid.UUID, a *model.Appointment, kind model.NotificationType, title, message string) error {
	typ, ok := notificationEvents[kind]
	if !ok {
		return fmt.Errorf("no event for notification %q", kind)
	}
	return s.Notify(ctx, userID, a, kind, typ, title, message)
}

// ListForUser возвращает последние уведомления текущего пользователя.
func (s *NotificationService) ListForUser(ctx context.Context) ([]model.AppointmentNotification, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.notifications.GetByUserID(ctx, a.ProfileID, defaultNotifications)
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return 0, err
	}
	return s.notifications.CountUnread(ctx, a.ProfileID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	a, err := actor.Require(ctx)
	if err != nil {
		return err
	}
	return s.notifications.MarkRead(ctx, a.ProfileID, id)
}

// SendDueReminders напоминает клиентам о записях в ближайшие 24 часа и отмечает
// их. Возвращает число отправленных напоминаний.
func (s *NotificationService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	from := wallClock(now)

	due, err := s.appointments.GetDueForReminder(ctx, from, from.Add(ReminderLead))
	if err != nil {
		return 0, fmt.Errorf("get appointments due for reminder: %w", err)
	}

	var (
		sent int
		errs []error
	)
	for i := range due {
		a := &due[i]
		err := s.Notify(ctx, a.ClientID, a, model.NotificationReminder, events.AppointmentReminder,
			"Напоминание о записи", "Напоминаем: "+describe(a))
		if err != nil {
			s.logger.Error("Failed to send reminder",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
			if !errors.Is(err, ErrDelivery) {
				continue
			}
		}
		if err := s.appointments.MarkReminded(ctx, a.ID, now); err != nil {
			errs = append(errs, fmt.Errorf("mark reminded: %w", err))
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", sent))
	}
	return sent, errors.Join(errs...)
}
