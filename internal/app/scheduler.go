package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ReminderSender рассылает напоминания о ближайших записях.
type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// ReminderScheduler запускает рассылку напоминаний с фиксированным интервалом,
// пока его не остановят или не отменят контекст.
type ReminderScheduler struct {
	sender   ReminderSender
	interval time.Duration
	logger   *zap.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewReminderScheduler(sender ReminderSender, interval time.Duration, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		sender:   sender,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую рассылку, первая проходит сразу. Повторный вызов
// ничего не делает.
func (s *ReminderScheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает рассылку и ждёт текущий проход. Если Start не вызывался,
// возвращается сразу.
func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping reminder scheduler")
		close(s.stopChan)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler cancelled")
			return
		}
	}
}

func (s *ReminderScheduler) sweep(ctx context.Context) {
	sent, err := s.sender.SendDueReminders(ctx)
	if err != nil {
		s.logger.Error("Reminder sweep failed", zap.Int("sent", sent), zap.Error(err))
		return
	}
	if sent > 0 {
		s.logger.Debug("Reminder sweep completed", zap.Int("sent", sent))
	}
}
