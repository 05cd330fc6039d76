package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/availability"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/Freeeeeet/booking_platform/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgConnectionProblem = "⚠️ Проблема с соединением, попробуйте ещё раз через минуту."
	msgNotRegistered     = "❌ Пользователь не найден. Используйте /start для регистрации."
	msgProfessionalsOnly = "❌ Эта команда доступна только специалистам.\n\nСтать специалистом: /becomepro"
	msgGenericError      = "❌ Произошла ошибка. Попробуйте позже."
	msgNoAvailability    = "📭 На этот день свободного времени нет."
	msgBooked            = "✅ Вы записаны! Специалист скоро подтвердит запись.\n\n"
	msgInvalidButton     = "❌ Кнопка устарела или повреждена"
)

// окно /myblocks по умолчанию
const defaultBlocksWindow = 30 * 24 * time.Hour

// usageError возвращают парсеры аргументов, его текст показывается как есть.
type usageError string

func (e usageError) Error() string { return string(e) }

// commandArgs возвращает слова после самой команды.
func commandArgs(update *models.Update) []string {
	if update.Message == nil {
		return nil
	}
	fields := strings.Fields(update.Message.Text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

func parseID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, usageError(fmt.Sprintf("❌ Неверный %s: %q", what, s))
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(availability.DateLayout, s)
	if err != nil {
		return time.Time{}, usageError(fmt.Sprintf("❌ Неверная дата %q, нужен формат ГГГГ-ММ-ДД", s))
	}
	return d, nil
}

func parseTime(s string) (model.TimeOfDay, error) {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		return 0, usageError(fmt.Sprintf("❌ Неверное время %q, нужен формат ЧЧ:ММ", s))
	}
	return t, nil
}

// parsePrice принимает "50", "50.5" или "50,50" и возвращает копейки.
func parsePrice(s string) (int, error) {
	invalid := usageError(fmt.Sprintf("❌ Неверная цена %q", s))

	whole, frac, hasFrac := strings.Cut(strings.Replace(s, ",", ".", 1), ".")
	units, err := strconv.Atoi(whole)
	if err != nil || strings.HasPrefix(whole, "-") {
		return 0, invalid
	}
	cents := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, invalid
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, invalid
		}
	}
	return units*100 + cents, nil
}

// serviceFields — аргументы /addservice и /editservice: <минуты> <цена> <название>.
type serviceFields struct {
	minutes int
	price   int
	name    string
}

func parseServiceFields(args []string) (serviceFields, error) {
	if len(args) < 3 {
		return serviceFields{}, usageError("❌ Нужно указать длительность, цену и название.")
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return serviceFields{}, usageError("❌ Длительность указывается целым числом минут.")
	}
	price, err := parsePrice(args[1])
	if err != nil {
		return serviceFields{}, err
	}
	return serviceFields{
		minutes: minutes,
		price:   price,
		name:    strings.Join(args[2:], " "),
	}, nil
}

// parseServiceFilter разбирает фильтры /services:
//
//	price=500-2000  цена от и до в рублях, любая граница может быть пустой
//	rating=4.5      минимальный рейтинг специалиста
//	duration=60     максимальная длительность в минутах
func parseServiceFilter(args []string) (model.ServiceFilter, error) {
	var f model.ServiceFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return f, usageError(fmt.Sprintf("❌ Непонятный фильтр %q", arg))
		}

		switch strings.ToLower(key) {
		case "price":
			lo, hi, isRange := strings.Cut(value, "-")
			if !isRange {
				lo, hi = "", value
			}
			if lo != "" {
				cents, err := parsePrice(lo)
				if err != nil {
					return f, err
				}
				f.MinPrice = cents
			}
			if hi != "" {
				cents, err := parsePrice(hi)
				if err != nil {
					return f, err
				}
				f.MaxPrice = cents
			}
		case "rating":
			r, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
			if err != nil || !(r >= 0 && r <= model.MaxRating) {
				return f, usageError(fmt.Sprintf("❌ Неверный рейтинг %q, нужно число от 0 до 5", value))
			}
			f.MinRating = r
		case "duration":
			minutes, err := strconv.Atoi(value)
			if err != nil || minutes <= 0 {
				return f, usageError(fmt.Sprintf("❌ Неверная длительность %q", value))
			}
			f.MaxDuration = minutes
		default:
			return f, usageError(fmt.Sprintf("❌ Неизвестный фильтр %q. Доступны price, rating, duration.", key))
		}
	}
	return f, nil
}

// parseDateRange разбирает "[с] [по]" для /myblocks. Без аргументов берётся окно
// от today на defaultBlocksWindow вперёд.
func parseDateRange(args []string, today time.Time) (time.Time, time.Time, error) {
	from, to := today, today.Add(defaultBlocksWindow)
	switch len(args) {
	case 0:
	case 1, 2:
		var err error
		if from, err = parseDate(args[0]); err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = from.Add(defaultBlocksWindow)
		if len(args) == 2 {
			if to, err = parseDate(args[1]); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
	default:
		return time.Time{}, time.Time{}, usageError("Использование: /myblocks [ГГГГ-ММ-ДД] [ГГГГ-ММ-ДД]")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, usageError("❌ Дата окончания раньше даты начала.")
	}
	return from, to, nil
}

// today возвращает текущую дату в наивном времени, как её хранит расписание.
func (h *Handlers) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// userMessage переводит ошибку сервиса в текст для пользователя.
func userMessage(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return string(usage)
	case availability.IsDataAccess(err):
		return msgConnectionProblem
	case errors.Is(err, availability.ErrInvalidInput):
		return "❌ Некорректный запрос: проверьте услугу и дату."
	case errors.Is(err, actor.ErrUnauthenticated), errors.Is(err, errNotRegistered):
		return msgNotRegistered
	case errors.Is(err, actor.ErrForbidden):
		return msgProfessionalsOnly
	case errors.Is(err, service.ErrNotOwner):
		return "❌ Вы не можете изменить эту запись."
	case errors.Is(err, service.ErrServiceNotFound):
		return "❌ Услуга не найдена или приостановлена."
	case errors.Is(err, service.ErrAvailabilityNotFound):
		return "❌ Рабочие часы не найдены."
	case errors.Is(err, service.ErrAppointmentNotFound), errors.Is(err, repository.ErrNotFound):
		return "❌ Не найдено."
	case errors.Is(err, service.ErrPastDate):
		return "❌ Это время уже прошло."
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ Этот слот недоступен. Свободное время: /slots"
	case errors.Is(err, service.ErrSelfBooking):
		return "❌ Нельзя записаться на свою же услугу."
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ В текущем статусе записи это действие недоступно."
	case errors.Is(err, service.ErrInvalidRating):
		return "❌ Оценка должна быть от 1 до 5."
	case errors.Is(err, service.ErrNotReviewable):
		return "❌ Отзыв можно оставить только о состоявшемся визите."
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return "❌ Вы уже оставили отзыв об этом визите."
	case errors.Is(err, service.ErrInvalidService):
		return "❌ Некорректная услуга: нужно название, длительность от 1 минуты до суток и неотрицательная цена."
	case errors.Is(err, service.ErrInvalidAvailability):
		return "❌ Некорректные рабочие часы: начало должно быть раньше конца, день недели от 0 до 6."
	case errors.Is(err, service.ErrInvalidBlock):
		return "❌ Некорректный интервал: начало должно быть раньше конца."
	case errors.Is(err, service.ErrInvalidFilter):
		return "❌ Некорректный фильтр: минимальная цена больше максимальной или рейтинг вне 0-5."
	}
	return msgGenericError
}

// fail логирует неожиданные ошибки и отвечает переведённым сообщением.
func (h *Handlers) fail(ctx context.Context, b *bot.Bot, update *models.Update, op string, err error) {
	msg := userMessage(err)
	if msg == msgGenericError || msg == msgConnectionProblem {
		h.logger.Error("Command failed",
			zap.String("op", op),
			zap.Int64("chat_id", update.Message.Chat.ID),
			zap.Error(err),
		)
	}
	h.sendError(ctx, b, update.Message.Chat.ID, msg)
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard прикрепляет kb, если она не nil.
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := b.SendMessage(ctx, params)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
