package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_platform/internal/controller/keyboard"
	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageSender — часть *bot.Bot, нужная для отправки уведомлений.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// BotSink доставляет события в Telegram-чат получателя.
type BotSink struct {
	sender   MessageSender
	profiles ProfileLookup
	logger   *zap.Logger
}

func NewBotSink(sender MessageSender, profiles ProfileLookup, logger *zap.Logger) *BotSink {
	return &BotSink{
		sender:   sender,
		profiles: profiles,
		logger:   logger,
	}
}

// Emit отправляет текст события. Получатели без привязанного чата пропускаются.
func (s *BotSink) Emit(ctx context.Context, e events.Event) error {
	p, err := s.profiles.GetByID(ctx, e.UserID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if p == nil || p.TelegramID == 0 {
		s.logger.Debug("Recipient has no chat, skipping",
			zap.String("user_id", e.UserID.String()),
			zap.String("event_type", string(e.Type)),
		)
		return nil
	}

	params := &bot.SendMessageParams{
		ChatID: p.TelegramID,
		Text:   fmt.Sprintf("🔔 %s\n\n%s", e.Title, e.Message),
	}
	if e.Type == events.AppointmentCreated && e.AppointmentID != uuid.Nil {
		params.ReplyMarkup = keyboard.NewBuilder().
			Row(
				keyboard.Button("✅ Подтвердить", keyboard.IDData(keyboard.ConfirmAppt, e.AppointmentID)),
				keyboard.Button("❌ Отменить", keyboard.IDData(keyboard.CancelAppt, e.AppointmentID)),
			).
			Build()
	}

	if _, err := s.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message to %d: %w", p.TelegramID, err)
	}
	return nil
}
