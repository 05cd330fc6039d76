package model

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyAvailability еженедельное рабочее окно специалиста.
type WeeklyAvailability struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	DayOfWeek      int       `json:"day_of_week"` // 0 = воскресенье, 6 = суббота
	StartTime      TimeOfDay `json:"start_time"`
	EndTime        TimeOfDay `json:"end_time"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BlockedSlot закрывает интервал [StartTime, EndTime) в конкретную дату.
type BlockedSlot struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Date           time.Time `json:"date"`
	StartTime      TimeOfDay `json:"start_time"`
	EndTime        TimeOfDay `json:"end_time"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Contains проверяет, попадает ли t в полуоткрытый интервал блокировки.
func (b *BlockedSlot) Contains(t TimeOfDay) bool {
	return t >= b.StartTime && t < b.EndTime
}

// Slot возможное время начала на конкретный день. В базе не хранится.
type Slot struct {
	Time      TimeOfDay `json:"time"`
	Available bool      `json:"available"`
}
