package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/controller/images"
	"github.com/Freeeeeet/booking_platform/internal/controller/keyboard"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// сколько последних отзывов показывает /reviews
const maxReviewsShown = 10

const helpText = "📚 Доступные команды:\n\n" +
	"Для клиентов:\n" +
	"/services [price=500-2000] [rating=4] [duration=60] - Каталог услуг\n" +
	"/slots <service_id> <ГГГГ-ММ-ДД> - Свободное время на день\n" +
	"/book <service_id> <ГГГГ-ММ-ДД> <ЧЧ:ММ> [комментарий] - Записаться\n" +
	"/mybookings - Мои записи\n" +
	"/cancel <appointment_id> - Отменить запись\n" +
	"/review <appointment_id> <1-5> [комментарий] - Оставить отзыв\n" +
	"/reviews <service_id> - Отзывы об услуге\n" +
	"/notifications - Мои уведомления\n" +
	"/dashboard - Сводка\n\n" +
	"Для специалистов:\n" +
	"/becomepro - Стать специалистом\n" +
	"/addservice <минуты> <цена> <название> - Добавить услугу\n" +
	"/editservice <service_id> <минуты> <цена> <название> - Изменить услугу\n" +
	"/myservices - Мои услуги\n" +
	"/toggleservice <service_id> - Приостановить или возобновить услугу\n" +
	"/delservice <service_id> - Удалить услугу\n" +
	"/setavail <день 0-6> <ЧЧ:ММ> <ЧЧ:ММ> - Добавить рабочие часы\n" +
	"/myavail - Мои рабочие часы\n" +
	"/delavail <id> - Удалить рабочие часы\n" +
	"/block <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ> [причина] - Заблокировать время\n" +
	"/myblocks [с] [по] - Мои блокировки\n" +
	"/unblock <id> - Снять блокировку\n" +
	"/pending - Записи, ожидающие подтверждения\n" +
	"/confirm <appointment_id> - Подтвердить запись\n" +
	"/complete <appointment_id> - Отметить визит\n" +
	"/noshow <appointment_id> - Отметить неявку"

// HandleStart регистрирует отправителя и приветствует его.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)

	profile, err := h.users.RegisterProfile(ctx, from.ID, name)
	if err != nil {
		h.fail(ctx, b, update, "register profile", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Привет, %s!\n\nЗдесь можно записаться к специалисту.\n\n%s",
		profile.FullName, helpText,
	))
}

func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleServices показывает каталог, можно с фильтрами по цене, рейтингу и длительности.
func (h *Handlers) HandleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	filter, err := parseServiceFilter(commandArgs(update))
	if err != nil {
		h.fail(ctx, b, update, "services", err)
		return
	}

	entries, err := h.catalog.Search(ctx, filter)
	if err != nil {
		h.fail(ctx, b, update, "search services", err)
		return
	}

	if len(entries) == 0 {
		if filter == (model.ServiceFilter{}) {
			h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Услуг пока нет.")
			return
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Под фильтр ничего не подошло.\n\nВесь каталог: /services")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatCatalog(entries))
}

// HandleSlots показывает слоты услуги на день текстом и картинкой.
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) != 2 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /slots <service_id> <ГГГГ-ММ-ДД>")
		return
	}

	serviceID, err := parseID(args[0], "идентификатор услуги")
	if err != nil {
		h.fail(ctx, b, update, "slots", err)
		return
	}
	date, err := parseDate(args[1])
	if err != nil {
		h.fail(ctx, b, update, "slots", err)
		return
	}

	svc, err := h.professional.GetService(ctx, serviceID)
	if err != nil {
		h.fail(ctx, b, update, "get service", err)
		return
	}

	slots, err := h.availability.GetAvailableSlots(ctx, svc.ProfessionalID, date, svc.ID)
	if err != nil {
		h.fail(ctx, b, update, "get available slots", err)
		return
	}

	chatID := update.Message.Chat.ID
	if len(slots) == 0 {
		h.sendMessage(ctx, b, chatID, msgNoAvailability)
		return
	}

	caption := formatting.FormatSlots(svc.Name, date, slots)

	imageData, err := images.GenerateDayImage(images.DaySlots{
		Title: svc.Name,
		Date:  date,
		Slots: slots,
	})
	if err != nil {
		h.logger.Warn("Failed to render day image", zap.Error(err))
		h.sendWithKeyboard(ctx, b, chatID, caption, keyboard.Slots(svc.ID, date, slots))
		return
	}

	params := &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "slots.png",
			Data:     bytes.NewReader(imageData),
		},
		Caption: caption,
	}
	kb := keyboard.Slots(svc.ID, date, slots)
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := b.SendPhoto(ctx, params); err != nil {
		h.logger.Error("Failed to send day image", zap.Error(err))
		h.sendWithKeyboard(ctx, b, chatID, caption, kb)
	}
}

// HandleBook записывает отправителя на слот.
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) < 3 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /book <service_id> <ГГГГ-ММ-ДД> <ЧЧ:ММ> [комментарий]")
		return
	}

	serviceID, err := parseID(args[0], "идентификатор услуги")
	if err != nil {
		h.fail(ctx, b, update, "book", err)
		return
	}
	date, err := parseDate(args[1])
	if err != nil {
		h.fail(ctx, b, update, "book", err)
		return
	}
	start, err := parseTime(args[2])
	if err != nil {
		h.fail(ctx, b, update, "book", err)
		return
	}
	notes := strings.Join(args[3:], " ")

	appointment, err := h.booking.BookAppointment(ctx, serviceID, start.On(date), notes)
	if err != nil {
		h.fail(ctx, b, update, "book appointment", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID,
		msgBooked+formatting.FormatAppointment(appointment),
		keyboard.ClientActions(appointment))
}

func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	appointments, err := h.booking.ListForClient(ctx)
	if err != nil {
		h.fail(ctx, b, update, "list bookings", err)
		return
	}

	if len(appointments) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 У вас пока нет записей.\n\nКаталог услуг: /services")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("📅 У вас %d %s:\n\n%s",
		len(appointments), formatting.PluralizeAppointments(len(appointments)), formatAppointments(appointments)))
}

func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /cancel <appointment_id>")
		return
	}

	id, err := parseID(args[0], "идентификатор записи")
	if err != nil {
		h.fail(ctx, b, update, "cancel", err)
		return
	}

	appointment, err := h.booking.Cancel(ctx, id)
	if err != nil {
		h.fail(ctx, b, update, "cancel appointment", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Запись отменена.\n\n"+formatting.FormatAppointment(appointment))
}

func (h *Handlers) HandleReview(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) < 2 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /review <appointment_id> <1-5> [комментарий]")
		return
	}

	id, err := parseID(args[0], "идентификатор записи")
	if err != nil {
		h.fail(ctx, b, update, "review", err)
		return
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Оценка должна быть числом от 1 до 5.")
		return
	}

	if _, err := h.reviews.AddReview(ctx, id, rating, strings.Join(args[2:], " ")); err != nil {
		h.fail(ctx, b, update, "add review", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⭐ Спасибо! Ваша оценка: %d/5.", rating))
}

// HandleReviews показывает рейтинг специалиста и последние отзывы об услуге.
func (h *Handlers) HandleReviews(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /reviews <service_id>")
		return
	}

	serviceID, err := parseID(args[0], "идентификатор услуги")
	if err != nil {
		h.fail(ctx, b, update, "reviews", err)
		return
	}

	svc, err := h.professional.GetService(ctx, serviceID)
	if err != nil {
		h.fail(ctx, b, update, "get service", err)
		return
	}

	reviews, err := h.reviews.ListForService(ctx, svc.ID)
	if err != nil {
		h.fail(ctx, b, update, "list reviews", err)
		return
	}
	avg, count, err := h.reviews.ProfessionalRating(ctx, svc.ProfessionalID)
	if err != nil {
		h.fail(ctx, b, update, "professional rating", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatReviews(svc, reviews, avg, count))
}

// HandleNotifications показывает входящие и помечает показанные прочитанными.
func (h *Handlers) HandleNotifications(ctx context.Context, b *bot.Bot, update *models.Update) {
	notifications, err := h.notifications.ListForUser(ctx)
	if err != nil {
		h.fail(ctx, b, update, "list notifications", err)
		return
	}

	if len(notifications) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Уведомлений нет.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🔔 Уведомления:\n")
	for _, n := range notifications {
		marker := "•"
		if !n.Read {
			marker = "🆕"
			if err := h.notifications.MarkRead(ctx, n.ID); err != nil {
				h.logger.Warn("Failed to mark notification read", zap.String("notification_id", n.ID.String()), zap.Error(err))
			}
		}
		fmt.Fprintf(&sb, "\n%s %s\n%s\n", marker, n.Title, n.Message)
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, sb.String())
}

func (h *Handlers) HandleDashboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	dashboard, err := h.dashboards.Get(ctx)
	if err != nil {
		h.fail(ctx, b, update, "get dashboard", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, RenderDashboard(dashboard))
}

func formatAppointments(appointments []model.Appointment) string {
	parts := make([]string, 0, len(appointments))
	for i := range appointments {
		parts = append(parts, formatting.FormatAppointment(&appointments[i]))
	}
	return strings.Join(parts, "\n\n")
}

func formatRating(avg float64, count int) string {
	if count == 0 {
		return "⭐ Отзывов пока нет"
	}
	return fmt.Sprintf("⭐ %.1f (%d %s)", avg, count, formatting.PluralizeReviews(count))
}

func formatCatalog(entries []service.CatalogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Найдено %d %s:\n", len(entries), formatting.PluralizeServices(len(entries)))
	for _, e := range entries {
		sb.WriteString("\n" + formatting.FormatService(e.Service) + "\n" + formatRating(e.Rating, e.Reviews) + "\n")
	}
	sb.WriteString("\nСвободное время: /slots <service_id> <ГГГГ-ММ-ДД>\nОтзывы: /reviews <service_id>")
	return sb.String()
}

// formatReviews выводит не больше maxReviewsShown отзывов в порядке хранилища.
func formatReviews(svc *model.Service, reviews []model.Review, avg float64, count int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 %s\n%s\n", svc.Name, formatRating(avg, count))
	if len(reviews) == 0 {
		sb.WriteString("\n📭 Об этой услуге отзывов нет.")
		return sb.String()
	}
	for i := range reviews[:min(len(reviews), maxReviewsShown)] {
		sb.WriteString("\n" + formatting.FormatReview(&reviews[i]) + "\n")
	}
	if len(reviews) > maxReviewsShown {
		fmt.Fprintf(&sb, "\n…и ещё %d", len(reviews)-maxReviewsShown)
	}
	return sb.String()
}
