package keyboard

import (
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const slotsPerRow = 4

// Slots показывает кнопку на каждый свободный слот. Возвращает nil, если свободных нет.
func Slots(serviceID uuid.UUID, date time.Time, slots []model.Slot) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			buttons = append(buttons, Button(s.Time.String(), SlotData(serviceID, date, s.Time)))
		}
	}
	if len(buttons) == 0 {
		return nil
	}
	return NewBuilder().Grid(slotsPerRow, buttons...).Build()
}

// ClientActions предлагает отмену, пока запись активна.
func ClientActions(a *model.Appointment) *models.InlineKeyboardMarkup {
	if !a.IsActive() {
		return nil
	}
	return NewBuilder().
		Row(Button("❌ Отменить", IDData(CancelAppt, a.ID))).
		Build()
}

// ProfessionalActions предлагает переходы, допустимые для текущего статуса записи.
func ProfessionalActions(a *model.Appointment) *models.InlineKeyboardMarkup {
	kb := NewBuilder()
	switch a.Status {
	case model.AppointmentStatusPending:
		kb.Row(
			Button("✅ Подтвердить", IDData(ConfirmAppt, a.ID)),
			Button("❌ Отменить", IDData(CancelAppt, a.ID)),
		)
	case model.AppointmentStatusConfirmed:
		kb.Row(
			Button("🏁 Состоялась", IDData(CompleteAppt, a.ID)),
			Button("🚷 Неявка", IDData(NoShowAppt, a.ID)),
		)
		kb.Row(Button("❌ Отменить", IDData(CancelAppt, a.ID)))
	}
	if kb.Len() == 0 {
		return nil
	}
	return kb.Build()
}

func ServiceActions(s *model.Service) *models.InlineKeyboardMarkup {
	toggle := "⏸ Приостановить"
	if !s.IsActive {
		toggle = "▶️ Возобновить"
	}
	return NewBuilder().
		Row(
			Button(toggle, IDData(ToggleService, s.ID)),
			Button("🗑 Удалить", IDData(DeleteService, s.ID)),
		).
		Build()
}

func AvailabilityActions(r *model.WeeklyAvailability) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🗑 Удалить", IDData(DeleteAvail, r.ID))).
		Build()
}

func BlockActions(b *model.BlockedSlot) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🔓 Снять блокировку", IDData(DeleteBlock, b.ID))).
		Build()
}
