package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	profiles ProfileStore
	logger   *zap.Logger
}

func NewUserService(profiles ProfileStore, logger *zap.Logger) *UserService {
	return &UserService{
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterProfile возвращает профиль telegramID. При первом обращении создаёт
// профиль клиента, потом обновляет имя.
func (s *UserService) RegisterProfile(ctx context.Context, telegramID int64, fullName string) (*model.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = fmt.Sprintf("Пользователь %d", telegramID)
	}

	existing, err := s.profiles.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	if existing != nil {
		if existing.FullName == fullName {
			return existing, nil
		}
		existing.FullName = fullName
		if err := s.profiles.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return existing, nil
	}

	p := &model.Profile{
		TelegramID: telegramID,
		FullName:   fullName,
		Role:       model.RoleClient,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("New profile registered",
		zap.String("profile_id", p.ID.String()),
		zap.Int64("telegram_id", telegramID),
	)

	return p, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Profile, error) {
	return s.profiles.GetByTelegramID(ctx, telegramID)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// BecomeProfessional делает клиента специалистом. Админ остаётся админом.
func (s *UserService) BecomeProfessional(ctx context.Context) (*model.Profile, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByID(ctx, a.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	if p.Role != model.RoleClient {
		return p, nil
	}

	p.Role = model.RoleProfessional
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Profile became professional", zap.String("profile_id", p.ID.String()))

	return p, nil
}
