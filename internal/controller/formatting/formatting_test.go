package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "50 ₽", FormatPrice(5000))
	assert.Equal(t, "12.05 ₽", FormatPrice(1205))
	assert.Equal(t, "0 ₽", FormatPrice(0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Воскресенье", WeekdayName(0))
	assert.Equal(t, "Понедельник", WeekdayName(1))
	assert.Equal(t, "Неизвестно", WeekdayName(7))
	assert.Equal(t, "Неизвестно", WeekdayName(-1))
}

func TestFormatDateWithWeekday(t *testing.T) {
	assert.Equal(t, "Пн 19.10.2026", FormatDateWithWeekday(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Вс 25.10.2026", FormatDateWithWeekday(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)))
}

func TestPluralize(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{1, "слот"},
		{2, "слота"},
		{4, "слота"},
		{5, "слотов"},
		{11, "слотов"},
		{12, "слотов"},
		{21, "слот"},
		{22, "слота"},
		{0, "слотов"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PluralizeSlots(tc.count), tc.count)
	}

	assert.Equal(t, "отзыва", PluralizeReviews(3))
	assert.Equal(t, "записей", PluralizeAppointments(14))
	assert.Equal(t, "услуга", PluralizeServices(101))
}

func TestFormatSlots(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	text := FormatSlots("Стрижка", day, []model.Slot{
		{Time: 9 * 60, Available: true},
		{Time: 9*60 + 30, Available: false},
		{Time: 10 * 60, Available: true},
	})
	assert.Contains(t, text, "Стрижка, Пн 19.10.2026")
	assert.Contains(t, text, "Свободно 2 слота: 09:00, 10:00")
	assert.Contains(t, text, "Занято: 09:30")

	text = FormatSlots("Стрижка", day, []model.Slot{{Time: 9 * 60, Available: false}})
	assert.Contains(t, text, "Свободных слотов на этот день нет")
}

func TestFormatAppointment(t *testing.T) {
	a := &model.Appointment{
		ID:           uuid.New(),
		StartsAt:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Status:       model.AppointmentStatusCompleted,
		Confirmation: model.ConfirmationNoShow,
		Service:      &model.Service{Name: "Стрижка"},
	}

	text := FormatAppointment(a)
	assert.Contains(t, text, "Стрижка")
	assert.Contains(t, text, "19.10.2026 10:00")
	assert.Contains(t, text, "Завершена (неявка)")
	assert.Contains(t, text, a.ID.String())

	assert.Contains(t, FormatAppointment(&model.Appointment{Status: model.AppointmentStatusPending}), "⏳ Запись")
}

func TestFormatReview(t *testing.T) {
	r := &model.Review{Rating: 4, Comment: "Отлично", CreatedAt: time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)}
	assert.Equal(t, "⭐⭐⭐⭐ 20.10.2026\n💬 Отлично", FormatReview(r))

	r.Comment = ""
	assert.Equal(t, "⭐⭐⭐⭐ 20.10.2026", FormatReview(r))
}
