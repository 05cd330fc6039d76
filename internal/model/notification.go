package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationReminder     NotificationType = "reminder"
	NotificationConfirmation NotificationType = "confirmation"
	NotificationCancellation NotificationType = "cancellation"
	NotificationReschedule   NotificationType = "reschedule"
	NotificationNewBooking   NotificationType = "new_booking"
	NotificationNoShow       NotificationType = "no_show"
)

type AppointmentNotification struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	AppointmentID uuid.UUID        `json:"appointment_id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Read          bool             `json:"read"`
	CreatedAt     time.Time        `json:"created_at"`
}
