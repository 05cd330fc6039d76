package model

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID              uuid.UUID `json:"id"`
	ProfessionalID  uuid.UUID `json:"professional_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration"`
	Price           int       `json:"price"` // в копейках
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Duration возвращает длительность услуги.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// BookableBy проверяет, что услуга активна и принадлежит professionalID.
func (s *Service) BookableBy(professionalID uuid.UUID) bool {
	return s.IsActive && s.ProfessionalID == professionalID && s.DurationMinutes > 0
}

// ServiceFilter сужает каталог услуг. Нулевое поле не ограничивает выборку.
type ServiceFilter struct {
	MinPrice    int // в копейках
	MaxPrice    int // в копейках
	MaxDuration int // в минутах
	MinRating   float64
}

// Matches проверяет цену и длительность. Рейтинг проверяется отдельно, он
// относится к специалисту, а не к услуге.
func (f ServiceFilter) Matches(s *Service) bool {
	if f.MinPrice > 0 && s.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && s.Price > f.MaxPrice {
		return false
	}
	if f.MaxDuration > 0 && s.DurationMinutes > f.MaxDuration {
		return false
	}
	return true
}
