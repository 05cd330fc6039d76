package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
)

var weekdayNames = [...]string{
	time.Sunday:    "Воскресенье",
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
}

var weekdayShort = [...]string{
	time.Sunday:    "Вс",
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
}

func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateWithWeekday возвращает дату с коротким днём недели, например "Пн 19.10.2026".
func FormatDateWithWeekday(t time.Time) string {
	return weekdayShort[t.Weekday()] + " " + FormatDate(t)
}

// FormatPrice форматирует цену из копеек в рубли, копейки опускаются если равны 0
func FormatPrice(priceInCents int) string {
	if priceInCents%100 == 0 {
		return fmt.Sprintf("%d ₽", priceInCents/100)
	}
	return fmt.Sprintf("%d.%02d ₽", priceInCents/100, priceInCents%100)
}

func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// WeekdayName возвращает название дня недели, 0 это воскресенье.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "Неизвестно"
	}
	return weekdayNames[weekday]
}

type StatusDisplay struct {
	Emoji string
	Text  string
}

func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает подтверждения"},
		model.AppointmentStatusConfirmed: {"✅", "Подтверждена"},
		model.AppointmentStatusCompleted: {"✔️", "Завершена"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

func FormatService(s *model.Service) string {
	line := fmt.Sprintf("💼 %s, %s, %s\n🆔 %s", s.Name, FormatDuration(s.DurationMinutes), FormatPrice(s.Price), s.ID)
	if !s.IsActive {
		line += "\n⏸ приостановлена"
	}
	return line
}

// FormatAppointment форматирует одну запись для списков.
func FormatAppointment(a *model.Appointment) string {
	display := GetAppointmentStatusDisplay(a.Status)

	name := "Запись"
	if a.Service != nil && a.Service.Name != "" {
		name = a.Service.Name
	}

	text := fmt.Sprintf("%s %s\n📅 %s\n📊 %s", display.Emoji, name, FormatDateTime(a.StartsAt), display.Text)
	if a.Confirmation == model.ConfirmationNoShow {
		text += " (неявка)"
	}
	return text + "\n🆔 " + a.ID.String()
}

// FormatSlots выводит свободные слоты одной строкой, занятые отдельно.
func FormatSlots(serviceName string, date time.Time, slots []model.Slot) string {
	var free, taken []string
	for _, s := range slots {
		if s.Available {
			free = append(free, s.Time.String())
		} else {
			taken = append(taken, s.Time.String())
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 %s, %s\n\n", serviceName, FormatDateWithWeekday(date))
	if len(free) == 0 {
		b.WriteString("Свободных слотов на этот день нет.")
	} else {
		fmt.Fprintf(&b, "🟢 Свободно %d %s: %s", len(free), PluralizeSlots(len(free)), strings.Join(free, ", "))
	}
	if len(taken) > 0 {
		b.WriteString("\n🔴 Занято: " + strings.Join(taken, ", "))
	}
	return b.String()
}

// FormatReview выводит отзыв звёздами и комментарием.
func FormatReview(r *model.Review) string {
	text := strings.Repeat("⭐", r.Rating) + " " + FormatDate(r.CreatedAt)
	if r.Comment != "" {
		text += "\n💬 " + r.Comment
	}
	return text
}
