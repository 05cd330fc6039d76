package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errNotRegistered = errors.New("profile not registered")

// RequireUser находит профиль отправителя и вызывает next с actor в контексте.
// Незарегистрированных просит сначала выполнить /start.
func (h *Handlers) RequireUser(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}

		actorCtx, err := h.withActor(ctx, update.Message.From.ID)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, userMessage(err))
			return
		}

		next(actorCtx, b, update)
	}
}

func (h *Handlers) withActor(ctx context.Context, telegramID int64) (context.Context, error) {
	profile, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return nil, err
	}
	if profile == nil {
		return nil, errNotRegistered
	}
	return actor.WithActor(ctx, actor.FromProfile(profile)), nil
}
