package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/controller/keyboard"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCallbackQuery маршрутизирует нажатия inline-кнопок.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	data := callback.Data

	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID),
	)

	if data == keyboard.Noop {
		h.answer(ctx, b, callback.ID, "", false)
		return
	}

	actorCtx, err := h.withActor(ctx, callback.From.ID)
	if err != nil {
		h.answer(ctx, b, callback.ID, userMessage(err), true)
		return
	}

	switch {
	case strings.HasPrefix(data, keyboard.BookSlot):
		h.callbackBook(actorCtx, b, callback)
	case strings.HasPrefix(data, keyboard.CancelAppt):
		h.callbackTransition(actorCtx, b, callback, keyboard.CancelAppt, "✅ Запись отменена", h.booking.Cancel)
	case strings.HasPrefix(data, keyboard.ConfirmAppt):
		h.callbackTransition(actorCtx, b, callback, keyboard.ConfirmAppt, "✅ Запись подтверждена", h.booking.Confirm)
	case strings.HasPrefix(data, keyboard.CompleteAppt):
		h.callbackTransition(actorCtx, b, callback, keyboard.CompleteAppt, "🏁 Визит состоялся", h.booking.Complete)
	case strings.HasPrefix(data, keyboard.NoShowAppt):
		h.callbackTransition(actorCtx, b, callback, keyboard.NoShowAppt, "🚷 Отмечена неявка", h.booking.MarkNoShow)
	case strings.HasPrefix(data, keyboard.ToggleService):
		h.callbackToggleService(actorCtx, b, callback)
	case strings.HasPrefix(data, keyboard.DeleteService):
		h.callbackRemove(actorCtx, b, callback, keyboard.DeleteService, "🗑 Услуга удалена", h.professional.DeleteService)
	case strings.HasPrefix(data, keyboard.DeleteAvail):
		h.callbackRemove(actorCtx, b, callback, keyboard.DeleteAvail, "🗑 Рабочие часы удалены", h.professional.DeleteAvailability)
	case strings.HasPrefix(data, keyboard.DeleteBlock):
		h.callbackRemove(actorCtx, b, callback, keyboard.DeleteBlock, "🔓 Блокировка снята", h.professional.DeleteBlock)
	default:
		h.logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("telegram_id", callback.From.ID),
		)
		h.answer(ctx, b, callback.ID, "❌ Неизвестное действие", false)
	}
}

func (h *Handlers) callbackBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	serviceID, startsAt, err := keyboard.ParseSlotData(callback.Data)
	if err != nil {
		h.answer(ctx, b, callback.ID, msgInvalidButton, true)
		return
	}

	appointment, err := h.booking.BookAppointment(ctx, serviceID, startsAt, "")
	if err != nil {
		h.callbackFailed(ctx, b, callback, "book appointment", err)
		return
	}

	h.answer(ctx, b, callback.ID, "✅ Вы записаны", false)
	h.sendWithKeyboard(ctx, b, callback.From.ID,
		msgBooked+formatting.FormatAppointment(appointment),
		keyboard.ClientActions(appointment))
}

func (h *Handlers) callbackTransition(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix, done string, apply appointmentTransition) {
	id, err := keyboard.ParseIDData(prefix, callback.Data)
	if err != nil {
		h.answer(ctx, b, callback.ID, msgInvalidButton, true)
		return
	}

	appointment, err := apply(ctx, id)
	if err != nil {
		h.callbackFailed(ctx, b, callback, strings.TrimSuffix(prefix, ":"), err)
		return
	}

	h.answer(ctx, b, callback.ID, done, false)
	h.refreshMessage(ctx, b, callback, appointment)
}

// refreshMessage переписывает сообщение с кнопкой под новый статус записи.
func (h *Handlers) refreshMessage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, a *model.Appointment) {
	var kb *models.InlineKeyboardMarkup
	if a.ClientID != actorProfileID(ctx) {
		kb = keyboard.ProfessionalActions(a)
	}
	h.editMessage(ctx, b, callback, formatting.FormatAppointment(a), kb)
}

func (h *Handlers) callbackToggleService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	id, err := keyboard.ParseIDData(keyboard.ToggleService, callback.Data)
	if err != nil {
		h.answer(ctx, b, callback.ID, msgInvalidButton, true)
		return
	}

	svc, err := h.professional.ToggleServiceActive(ctx, id)
	if err != nil {
		h.callbackFailed(ctx, b, callback, "toggle service", err)
		return
	}

	done := "▶️ Услуга возобновлена"
	if !svc.IsActive {
		done = "⏸ Услуга приостановлена"
	}
	h.answer(ctx, b, callback.ID, done, false)
	h.editMessage(ctx, b, callback, toggledText(svc), keyboard.ServiceActions(svc))
}

// callbackRemove удаляет объект и заменяет текст сообщения, убирая кнопки.
func (h *Handlers) callbackRemove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix, done string, apply removal) {
	id, err := keyboard.ParseIDData(prefix, callback.Data)
	if err != nil {
		h.answer(ctx, b, callback.ID, msgInvalidButton, true)
		return
	}

	if err := apply(ctx, id); err != nil {
		h.callbackFailed(ctx, b, callback, strings.TrimSuffix(prefix, ":"), err)
		return
	}

	h.answer(ctx, b, callback.ID, done, false)
	h.editMessage(ctx, b, callback, done+".", nil)
}

// editMessage заменяет текст сообщения с кнопкой. Без kb кнопки убираются.
func (h *Handlers) editMessage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string, kb *models.InlineKeyboardMarkup) {
	msg := callback.Message.Message
	if msg == nil {
		h.sendWithKeyboard(ctx, b, callback.From.ID, text, kb)
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Warn("Failed to edit message", zap.Int("message_id", msg.ID), zap.Error(err))
	}
}

func (h *Handlers) callbackFailed(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, op string, err error) {
	msg := userMessage(err)
	if msg == msgGenericError || msg == msgConnectionProblem {
		h.logger.Error("Callback failed",
			zap.String("op", op),
			zap.Int64("telegram_id", callback.From.ID),
			zap.Error(err),
		)
	}
	h.answer(ctx, b, callback.ID, msg, true)
}

func (h *Handlers) answer(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

func actorProfileID(ctx context.Context) uuid.UUID {
	a, ok := actor.FromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return a.ProfileID
}
