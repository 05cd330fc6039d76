package keyboard

import (
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
)

// Префиксы callback data. Telegram ограничивает данные кнопки 64 байтами,
// поэтому дата и время кодируются компактно.
const (
	Noop          = "noop"
	BookSlot      = "book:"       // book:<service_id>:<20061019>:<0930>
	CancelAppt    = "cancel:"     // cancel:<appointment_id>
	ConfirmAppt   = "confirm:"    // confirm:<appointment_id>
	CompleteAppt  = "complete:"   // complete:<appointment_id>
	NoShowAppt    = "noshow:"     // noshow:<appointment_id>
	DeleteAvail   = "delavail:"   // delavail:<availability_id>
	DeleteBlock   = "unblock:"    // unblock:<block_id>
	DeleteService = "delservice:" // delservice:<service_id>
	ToggleService = "toggle:"     // toggle:<service_id>

	compactDate = "20060102"
	compactTime = "1504"
)

var ErrInvalidFormat = errors.New("invalid callback format")

// SlotData кодирует запись на конкретный слот.
func SlotData(serviceID uuid.UUID, date time.Time, slot model.TimeOfDay) string {
	return BookSlot + serviceID.String() + ":" + date.Format(compactDate) + ":" + slot.On(date).Format(compactTime)
}

// ParseSlotData разбирает данные SlotData и возвращает услугу и начало слота.
func ParseSlotData(data string) (uuid.UUID, time.Time, error) {
	parts := strings.Split(strings.TrimPrefix(data, BookSlot), ":")
	if !strings.HasPrefix(data, BookSlot) || len(parts) != 3 {
		return uuid.Nil, time.Time{}, ErrInvalidFormat
	}
	serviceID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidFormat
	}
	startsAt, err := time.Parse(compactDate+compactTime, parts[1]+parts[2])
	if err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidFormat
	}
	return serviceID, startsAt, nil
}

// IDData кодирует действие над записью с идентификатором id.
func IDData(prefix string, id uuid.UUID) string {
	return prefix + id.String()
}

// ParseIDData извлекает идентификатор после prefix.
func ParseIDData(prefix, data string) (uuid.UUID, error) {
	if !strings.HasPrefix(data, prefix) {
		return uuid.Nil, ErrInvalidFormat
	}
	id, err := uuid.Parse(strings.TrimPrefix(data, prefix))
	if err != nil {
		return uuid.Nil, ErrInvalidFormat
	}
	return id, nil
}
