package controller

import (
	"context"

	"github.com/Freeeeeet/booking_platform/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

type command struct {
	name        string
	description string
	handler     bot.HandlerFunc
	match       bot.MatchType
}

type route struct {
	pattern string
	match   bot.MatchType
}

// routes возвращает шаблоны, под которыми регистрируется команда.
func (cmd command) routes() []route {
	if cmd.match != bot.MatchTypePrefix {
		return []route{{"/" + cmd.name, cmd.match}}
	}
	// "/review" не должен перехватывать "/reviews"
	return []route{
		{"/" + cmd.name, bot.MatchTypeExact},
		{"/" + cmd.name + " ", bot.MatchTypePrefix},
	}
}

func (c *BotController) commands() []command {
	h := c.handlers
	auth := h.RequireUser

	return []command{
		{"start", "🚀 Начать работу с ботом", h.HandleStart, bot.MatchTypeExact},
		{"help", "❓ Справка по командам", h.HandleHelp, bot.MatchTypeExact},
		{"services", "📋 Каталог услуг", auth(h.HandleServices), bot.MatchTypePrefix},
		{"slots", "🗓 Свободное время на день", auth(h.HandleSlots), bot.MatchTypePrefix},
		{"book", "✍️ Записаться", auth(h.HandleBook), bot.MatchTypePrefix},
		{"mybookings", "📅 Мои записи", auth(h.HandleMyBookings), bot.MatchTypeExact},
		{"cancel", "❌ Отменить запись", auth(h.HandleCancel), bot.MatchTypePrefix},
		{"review", "⭐ Оставить отзыв", auth(h.HandleReview), bot.MatchTypePrefix},
		{"reviews", "💬 Отзывы об услуге", auth(h.HandleReviews), bot.MatchTypePrefix},
		{"notifications", "🔔 Мои уведомления", auth(h.HandleNotifications), bot.MatchTypeExact},
		{"dashboard", "🏠 Сводка", auth(h.HandleDashboard), bot.MatchTypeExact},
		{"becomepro", "🎓 Стать специалистом", auth(h.HandleBecomePro), bot.MatchTypeExact},
		{"addservice", "➕ Добавить услугу (специалист)", auth(h.HandleAddService), bot.MatchTypePrefix},
		{"editservice", "✏️ Изменить услугу (специалист)", auth(h.HandleEditService), bot.MatchTypePrefix},
		{"myservices", "📝 Мои услуги (специалист)", auth(h.HandleMyServices), bot.MatchTypeExact},
		{"toggleservice", "⏯ Приостановить или возобновить услугу (специалист)", auth(h.HandleToggleService), bot.MatchTypePrefix},
		{"delservice", "🗑 Удалить услугу (специалист)", auth(h.HandleDeleteService), bot.MatchTypePrefix},
		{"setavail", "🕘 Добавить рабочие часы (специалист)", auth(h.HandleSetAvailability), bot.MatchTypePrefix},
		{"myavail", "🗓 Мои рабочие часы (специалист)", auth(h.HandleMyAvailability), bot.MatchTypeExact},
		{"delavail", "🗑 Удалить рабочие часы (специалист)", auth(h.HandleDeleteAvailability), bot.MatchTypePrefix},
		{"block", "🚫 Заблокировать время (специалист)", auth(h.HandleBlock), bot.MatchTypePrefix},
		{"myblocks", "📛 Мои блокировки (специалист)", auth(h.HandleMyBlocks), bot.MatchTypePrefix},
		{"unblock", "🔓 Снять блокировку (специалист)", auth(h.HandleUnblock), bot.MatchTypePrefix},
		{"pending", "⏳ Ожидают подтверждения (специалист)", auth(h.HandlePending), bot.MatchTypeExact},
		{"confirm", "✅ Подтвердить запись (специалист)", auth(h.HandleConfirm), bot.MatchTypePrefix},
		{"complete", "🏁 Отметить визит (специалист)", auth(h.HandleComplete), bot.MatchTypePrefix},
		{"noshow", "🚷 Отметить неявку (специалист)", auth(h.HandleNoShow), bot.MatchTypePrefix},
	}
}

// RegisterHandlers регистрирует команды и маршрутизатор inline-кнопок, затем
// публикует меню команд.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	cmds := c.commands()
	for _, cmd := range cmds {
		for _, r := range cmd.routes() {
			c.bot.RegisterHandler(bot.HandlerTypeMessageText, r.pattern, r.match, cmd.handler)
		}
	}

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx, cmds)
}

func (c *BotController) setCommands(ctx context.Context, cmds []command) error {
	menu := make([]models.BotCommand, 0, len(cmds))
	for _, cmd := range cmds {
		menu = append(menu, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: menu,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set", zap.Int("commands", len(menu)))
	return nil
}

// Start получает обновления, пока ctx не отменён.
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
