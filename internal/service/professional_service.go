package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfessionalService управляет услугами, рабочими часами и блокировками специалиста.
type ProfessionalService struct {
	services ServiceStore
	rules    AvailabilityStore
	blocks   BlockedSlotStore
	logger   *zap.Logger
}

func NewProfessionalService(services ServiceStore, rules AvailabilityStore, blocks BlockedSlotStore, logger *zap.Logger) *ProfessionalService {
	return &ProfessionalService{
		services: services,
		rules:    rules,
		blocks:   blocks,
		logger:   logger,
	}
}

func requireProfessional(ctx context.Context) (actor.Actor, error) {
	return actor.Require(ctx, model.RoleProfessional, model.RoleAdmin)
}

// owns проверяет, может ли a менять данные professionalID. Админу можно всё.
func owns(a actor.Actor, professionalID uuid.UUID) bool {
	return a.ProfileID == professionalID || a.Is(model.RoleAdmin)
}

func validateService(svc *model.Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if svc.DurationMinutes <= 0 || svc.DurationMinutes > int(model.MinutesPerDay) {
		return fmt.Errorf("%w: duration %d", ErrInvalidService, svc.DurationMinutes)
	}
	if svc.Price < 0 {
		return fmt.Errorf("%w: price %d", ErrInvalidService, svc.Price)
	}
	return nil
}

// CreateService добавляет активную услугу текущего специалиста.
func (s *ProfessionalService) CreateService(ctx context.Context, name, description string, durationMinutes, price int) (*model.Service, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}

	svc := &model.Service{
		ProfessionalID:  a.ProfileID,
		Name:            strings.TrimSpace(name),
		Description:     strings.TrimSpace(description),
		DurationMinutes: durationMinutes,
		Price:           price,
		IsActive:        true,
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("Service created",
		zap.String("service_id", svc.ID.String()),
		zap.String("professional_id", a.ProfileID.String()),
		zap.String("name", svc.Name),
		zap.Int("duration", svc.DurationMinutes),
	)

	return svc, nil
}

func (s *ProfessionalService) ownedService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !owns(a, svc.ProfessionalID) {
		return nil, ErrNotOwner
	}
	return svc, nil
}

// UpdateService заменяет изменяемые поля своей услуги.
func (s *ProfessionalService) UpdateService(ctx context.Context, update *model.Service) (*model.Service, error) {
	svc, err := s.ownedService(ctx, update.ID)
	if err != nil {
		return nil, err
	}

	svc.Name = strings.TrimSpace(update.Name)
	svc.Description = strings.TrimSpace(update.Description)
	svc.DurationMinutes = update.DurationMinutes
	svc.Price = update.Price
	svc.IsActive = update.IsActive
	if err := validateService(svc); err != nil {
		return nil, err
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

// ToggleServiceActive включает или приостанавливает запись на услугу.
func (s *ProfessionalService) ToggleServiceActive(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.ownedService(ctx, id)
	if err != nil {
		return nil, err
	}

	svc.IsActive = !svc.IsActive
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.logger.Info("Service toggled",
		zap.String("service_id", svc.ID.String()),
		zap.Bool("is_active", svc.IsActive),
	)

	return svc, nil
}

func (s *ProfessionalService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ownedService(ctx, id); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// ListServices возвращает все услуги специалиста, включая приостановленные.
func (s *ProfessionalService) ListServices(ctx context.Context, professionalID uuid.UUID) ([]*model.Service, error) {
	return s.services.GetByProfessionalID(ctx, professionalID)
}

func (s *ProfessionalService) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// SetAvailability добавляет рабочие часы. День недели как в time.Weekday,
// 0 воскресенье.
func (s *ProfessionalService) SetAvailability(ctx context.Context, weekday int, start, end model.TimeOfDay, available bool) (*model.WeeklyAvailability, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}

	if weekday < 0 || weekday > 6 {
		return nil, fmt.Errorf("%w: weekday %d", ErrInvalidAvailability, weekday)
	}
	if start < 0 || end > model.MinutesPerDay {
		return nil, fmt.Errorf("%w: %s-%s out of day", ErrInvalidAvailability, start, end)
	}
	if available && start >= end {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidAvailability, start, end)
	}

	rule := &model.WeeklyAvailability{
		ProfessionalID: a.ProfileID,
		DayOfWeek:      weekday,
		StartTime:      start,
		EndTime:        end,
		IsAvailable:    available,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("Availability set",
		zap.String("professional_id", a.ProfileID.String()),
		zap.Int("weekday", weekday),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Bool("available", available),
	)

	return rule, nil
}

// ListAvailability возвращает рабочие часы текущего специалиста.
func (s *ProfessionalService) ListAvailability(ctx context.Context) ([]model.WeeklyAvailability, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}
	return s.rules.GetByProfessionalID(ctx, a.ProfileID)
}

func (s *ProfessionalService) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	a, err := requireProfessional(ctx)
	if err != nil {
		return err
	}

	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}
	if rule == nil {
		return ErrAvailabilityNotFound
	}
	if !owns(a, rule.ProfessionalID) {
		return ErrNotOwner
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return nil
}

// BlockTime закрывает [start, end) в дату date.
func (s *ProfessionalService) BlockTime(ctx context.Context, date time.Time, start, end model.TimeOfDay, reason string) (*model.BlockedSlot, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidBlock)
	}
	if start < 0 || end > model.MinutesPerDay || start >= end {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidBlock, start, end)
	}

	y, m, d := date.Date()
	block := &model.BlockedSlot{
		ProfessionalID: a.ProfileID,
		Date:           time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		StartTime:      start,
		EndTime:        end,
		Reason:         strings.TrimSpace(reason),
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("create blocked slot: %w", err)
	}

	s.logger.Info("Time blocked",
		zap.String("professional_id", a.ProfileID.String()),
		zap.String("date", block.Date.Format("2006-01-02")),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
	)

	return block, nil
}

// ListBlocks возвращает блокировки с from <= date <= to.
func (s *ProfessionalService) ListBlocks(ctx context.Context, from, to time.Time) ([]model.BlockedSlot, error) {
	a, err := requireProfessional(ctx)
	if err != nil {
		return nil, err
	}
	return s.blocks.GetByProfessionalInRange(ctx, a.ProfileID, from, to)
}

func (s *ProfessionalService) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	a, err := requireProfessional(ctx)
	if err != nil {
		return err
	}
	if err := s.blocks.Delete(ctx, a.ProfileID, id); err != nil {
		return fmt.Errorf("delete blocked slot: %w", err)
	}
	return nil
}
