package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // ждёт специалиста
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Confirmation отметка специалиста о визите.
type Confirmation string

const (
	ConfirmationNone      Confirmation = ""
	ConfirmationConfirmed Confirmation = "confirmed"
	ConfirmationNoShow    Confirmation = "no_show"
)

type Appointment struct {
	ID             uuid.UUID         `json:"id"`
	ProfessionalID uuid.UUID         `json:"professional_id"`
	ClientID       uuid.UUID         `json:"client_id"`
	ServiceID      uuid.UUID         `json:"service_id"`
	StartsAt       time.Time         `json:"appointment_date"` // без часового пояса
	Status         AppointmentStatus `json:"status"`
	Confirmation   Confirmation      `json:"appointment_confirmation"`
	Notes          string            `json:"notes"`
	RemindedAt     *time.Time        `json:"reminded_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Из таблицы services, ноль если не загружено.
	DurationMinutes int `json:"duration,omitempty"`

	Service *Service `json:"service,omitempty"`
}

// OccupiesSlot проверяет, занимает ли запись своё время.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentStatusCancelled
}

// IsActive проверяет, можно ли ещё отменить или подтвердить запись.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// EndsAt возвращает время окончания, если известна длительность.
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
