package events

import (
	"context"

	"go.uber.org/zap"
)

// LogSink пишет события в лог.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, e Event) error {
	s.logger.Info("Event emitted",
		zap.String("event_id", e.ID.String()),
		zap.String("event_type", string(e.Type)),
		zap.String("user_id", e.UserID.String()),
		zap.String("appointment_id", e.AppointmentID.String()),
		zap.String("title", e.Title),
	)
	return nil
}
