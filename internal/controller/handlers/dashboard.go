package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/service"
)

var roleNames = map[model.Role]string{
	model.RoleClient:       "клиенты",
	model.RoleProfessional: "специалисты",
	model.RoleAdmin:        "администраторы",
}

// RenderDashboard выводит сводку для роли текстом сообщения.
func RenderDashboard(d service.Dashboard) string {
	var sb strings.Builder

	switch d := d.(type) {
	case service.ClientDashboard:
		fmt.Fprintf(&sb, "🏠 Сводка\n\n🔔 Непрочитанных уведомлений: %d\n", d.Unread)
		if len(d.Upcoming) == 0 {
			sb.WriteString("\n📭 Предстоящих записей нет.\nКаталог услуг: /services")
			break
		}
		sb.WriteString("\n📅 Предстоящие:\n\n" + formatAppointments(d.Upcoming))

	case service.ProfessionalDashboard:
		sb.WriteString("💼 Сводка\n\n" + formatRating(d.Rating, d.Reviews) + "\n")
		fmt.Fprintf(&sb, "⏳ Ожидают подтверждения: %d", len(d.Pending))
		if len(d.Pending) > 0 {
			sb.WriteString(" (/pending)")
		}
		if len(d.Today) == 0 {
			sb.WriteString("\n\n📭 На сегодня записей нет.")
			break
		}
		sb.WriteString("\n\n📅 Сегодня:\n\n" + formatAppointments(d.Today))

	case service.AdminDashboard:
		sb.WriteString("🛠 Сводка администратора\n\n👥 Профили:\n")
		for _, role := range []model.Role{model.RoleClient, model.RoleProfessional, model.RoleAdmin} {
			fmt.Fprintf(&sb, "  %s: %d\n", roleNames[role], d.Profiles[role])
		}

		sb.WriteString("\n📊 Записи:\n")
		statuses := make([]string, 0, len(d.Appointments))
		for status := range d.Appointments {
			statuses = append(statuses, string(status))
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			display := formatting.GetAppointmentStatusDisplay(model.AppointmentStatus(status))
			fmt.Fprintf(&sb, "  %s %s: %d\n", display.Emoji, display.Text, d.Appointments[model.AppointmentStatus(status)])
		}

		fmt.Fprintf(&sb, "\n💰 Выручка: %s", formatting.FormatPrice(int(d.Revenue)))

	default:
		sb.WriteString("🤷 Для этой роли сводки нет.")
	}

	return sb.String()
}
