package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/controller/keyboard"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

func (h *Handlers) HandleBecomePro(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, err := h.users.BecomeProfessional(ctx)
	if err != nil {
		h.fail(ctx, b, update, "become professional", err)
		return
	}

	if profile.Role == model.RoleAdmin {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "ℹ️ У администратора уже есть доступ специалиста.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🎓 Теперь вы специалист!\n\n"+
			"Что дальше:\n"+
			"1. /addservice <минуты> <цена> <название>\n"+
			"2. /setavail <день 0-6> <ЧЧ:ММ> <ЧЧ:ММ>")
}

// HandleAddService разбирает "/addservice 60 1500 Стрижка и укладка".
func (h *Handlers) HandleAddService(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) < 3 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /addservice <минуты> <цена> <название>")
		return
	}

	fields, err := parseServiceFields(args)
	if err != nil {
		h.fail(ctx, b, update, "add service", err)
		return
	}

	svc, err := h.professional.CreateService(ctx, fields.name, "", fields.minutes, fields.price)
	if err != nil {
		h.fail(ctx, b, update, "create service", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, "✅ Услуга создана!\n\n"+formatting.FormatService(svc), keyboard.ServiceActions(svc))
}

// HandleEditService заменяет длительность, цену и название услуги. Описание и
// активность сохраняются.
func (h *Handlers) HandleEditService(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) < 4 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /editservice <service_id> <минуты> <цена> <название>")
		return
	}

	id, err := parseID(args[0], "идентификатор услуги")
	if err != nil {
		h.fail(ctx, b, update, "edit service", err)
		return
	}
	fields, err := parseServiceFields(args[1:])
	if err != nil {
		h.fail(ctx, b, update, "edit service", err)
		return
	}

	current, err := h.professional.GetService(ctx, id)
	if err != nil {
		h.fail(ctx, b, update, "get service", err)
		return
	}

	edited := *current
	edited.Name = fields.name
	edited.DurationMinutes = fields.minutes
	edited.Price = fields.price

	svc, err := h.professional.UpdateService(ctx, &edited)
	if err != nil {
		h.fail(ctx, b, update, "update service", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, "✅ Услуга обновлена!\n\n"+formatting.FormatService(svc), keyboard.ServiceActions(svc))
}

// HandleMyServices отправляет каждую услугу отдельным сообщением с кнопками управления.
func (h *Handlers) HandleMyServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	a, err := actor.Require(ctx, model.RoleProfessional, model.RoleAdmin)
	if err != nil {
		h.fail(ctx, b, update, "my services", err)
		return
	}

	services, err := h.professional.ListServices(ctx, a.ProfileID)
	if err != nil {
		h.fail(ctx, b, update, "list services", err)
		return
	}

	if len(services) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 У вас пока нет услуг.\n\nСоздать: /addservice <минуты> <цена> <название>")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("📝 У вас %d %s:", len(services), formatting.PluralizeServices(len(services))))
	for _, s := range services {
		h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, formatting.FormatService(s), keyboard.ServiceActions(s))
	}
}

func (h *Handlers) HandleToggleService(ctx context.Context, b *bot.Bot, update *models.Update) {
	id, ok := h.singleID(ctx, b, update, "/toggleservice <service_id>", "идентификатор услуги")
	if !ok {
		return
	}

	svc, err := h.professional.ToggleServiceActive(ctx, id)
	if err != nil {
		h.fail(ctx, b, update, "toggle service", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, toggledText(svc), keyboard.ServiceActions(svc))
}

func (h *Handlers) HandleDeleteService(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.remove(ctx, b, update, "/delservice <service_id>", "идентификатор услуги", "🗑 Услуга удалена.", h.professional.DeleteService)
}

// HandleSetAvailability добавляет недельное рабочее окно.
func (h *Handlers) HandleSetAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) != 3 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /setavail <день 0-6> <ЧЧ:ММ> <ЧЧ:ММ>\n0 это воскресенье.")
		return
	}

	weekday, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ День недели указывается числом от 0 (воскресенье) до 6 (суббота).")
		return
	}
	start, err := parseTime(args[1])
	if err != nil {
		h.fail(ctx, b, update, "set availability", err)
		return
	}
	end, err := parseTime(args[2])
	if err != nil {
		h.fail(ctx, b, update, "set availability", err)
		return
	}

	rule, err := h.professional.SetAvailability(ctx, weekday, start, end, true)
	if err != nil {
		h.fail(ctx, b, update, "set availability", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, "✅ Рабочие часы добавлены: "+formatRule(rule), keyboard.AvailabilityActions(rule))
}

func (h *Handlers) HandleMyAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	rules, err := h.professional.ListAvailability(ctx)
	if err != nil {
		h.fail(ctx, b, update, "list availability", err)
		return
	}

	if len(rules) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Рабочих часов пока нет.\n\nДобавить: /setavail <день 0-6> <ЧЧ:ММ> <ЧЧ:ММ>")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🗓 Ваши рабочие часы:")
	for i := range rules {
		r := &rules[i]
		h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, formatRule(r)+"\n🆔 "+r.ID.String(), keyboard.AvailabilityActions(r))
	}
}

func (h *Handlers) HandleDeleteAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.remove(ctx, b, update, "/delavail <id>", "идентификатор рабочих часов", "🗑 Рабочие часы удалены.", h.professional.DeleteAvailability)
}

func (h *Handlers) HandleBlock(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update)
	if len(args) < 3 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: /block <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ> [причина]")
		return
	}

	date, err := parseDate(args[0])
	if err != nil {
		h.fail(ctx, b, update, "block", err)
		return
	}
	start, err := parseTime(args[1])
	if err != nil {
		h.fail(ctx, b, update, "block", err)
		return
	}
	end, err := parseTime(args[2])
	if err != nil {
		h.fail(ctx, b, update, "block", err)
		return
	}

	block, err := h.professional.BlockTime(ctx, date, start, end, strings.Join(args[3:], " "))
	if err != nil {
		h.fail(ctx, b, update, "block time", err)
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, "✅ Время заблокировано\n\n"+formatBlock(block), keyboard.BlockActions(block))
}

// HandleMyBlocks показывает блокировки в диапазоне дат, по умолчанию на месяц вперёд.
func (h *Handlers) HandleMyBlocks(ctx context.Context, b *bot.Bot, update *models.Update) {
	from, to, err := parseDateRange(commandArgs(update), h.today())
	if err != nil {
		h.fail(ctx, b, update, "my blocks", err)
		return
	}

	blocks, err := h.professional.ListBlocks(ctx, from, to)
	if err != nil {
		h.fail(ctx, b, update, "list blocks", err)
		return
	}

	period := formatting.FormatDate(from) + " - " + formatting.FormatDate(to)
	if len(blocks) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Блокировок за "+period+" нет.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("🚫 Блокировки за %s: %d", period, len(blocks)))
	for i := range blocks {
		h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, formatBlock(&blocks[i]), keyboard.BlockActions(&blocks[i]))
	}
}

func (h *Handlers) HandleUnblock(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.remove(ctx, b, update, "/unblock <id>", "идентификатор блокировки", "🔓 Блокировка снята.", h.professional.DeleteBlock)
}

func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	appointments, err := h.booking.ListPending(ctx)
	if err != nil {
		h.fail(ctx, b, update, "list pending", err)
		return
	}

	if len(appointments) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Нет записей, ожидающих подтверждения.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⏳ Ожидают подтверждения: %d %s",
		len(appointments), formatting.PluralizeAppointments(len(appointments))))
	for i := range appointments {
		a := &appointments[i]
		h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, formatting.FormatAppointment(a), keyboard.ProfessionalActions(a))
	}
}

func (h *Handlers) HandleConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.transition(ctx, b, update, "/confirm <appointment_id>", "✅ Запись подтверждена.", h.booking.Confirm)
}

func (h *Handlers) HandleComplete(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.transition(ctx, b, update, "/complete <appointment_id>", "🏁 Визит состоялся.", h.booking.Complete)
}

func (h *Handlers) HandleNoShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.transition(ctx, b, update, "/noshow <appointment_id>", "🚷 Отмечена неявка.", h.booking.MarkNoShow)
}

type appointmentTransition func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)

func (h *Handlers) transition(ctx context.Context, b *bot.Bot, update *models.Update, usage, done string, apply appointmentTransition) {
	id, ok := h.singleID(ctx, b, update, usage, "идентификатор записи")
	if !ok {
		return
	}

	appointment, err := apply(ctx, id)
	if err != nil {
		h.fail(ctx, b, update, strings.Fields(usage)[0], err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, done+"\n\n"+formatting.FormatAppointment(appointment))
}

// removal удаляет объект специалиста по идентификатору.
type removal func(ctx context.Context, id uuid.UUID) error

func (h *Handlers) remove(ctx context.Context, b *bot.Bot, update *models.Update, usage, what, done string, apply removal) {
	id, ok := h.singleID(ctx, b, update, usage, what)
	if !ok {
		return
	}

	if err := apply(ctx, id); err != nil {
		h.fail(ctx, b, update, strings.Fields(usage)[0], err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, done)
}

// singleID разбирает единственный аргумент команды, иначе отвечает подсказкой.
func (h *Handlers) singleID(ctx context.Context, b *bot.Bot, update *models.Update, usage, what string) (uuid.UUID, bool) {
	args := commandArgs(update)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "Использование: "+usage)
		return uuid.Nil, false
	}
	id, err := parseID(args[0], what)
	if err != nil {
		h.fail(ctx, b, update, usage, err)
		return uuid.Nil, false
	}
	return id, true
}

func toggledText(svc *model.Service) string {
	state := "▶️ Услуга снова принимает записи."
	if !svc.IsActive {
		state = "⏸ Услуга приостановлена и не принимает записи."
	}
	return state + "\n\n" + formatting.FormatService(svc)
}

func formatRule(r *model.WeeklyAvailability) string {
	line := fmt.Sprintf("%s %s-%s", formatting.WeekdayName(r.DayOfWeek), r.StartTime, r.EndTime)
	if !r.IsAvailable {
		line += " (выходной)"
	}
	return line
}

func formatBlock(bl *model.BlockedSlot) string {
	text := fmt.Sprintf("🚫 %s %s-%s", formatting.FormatDateWithWeekday(bl.Date), bl.StartTime, bl.EndTime)
	if bl.Reason != "" {
		text += "\n📝 " + bl.Reason
	}
	return text + "\n🆔 " + bl.ID.String()
}
