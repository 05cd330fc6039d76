package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRepository struct {
	*base.Repository
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{Repository: base.NewRepository(pool)}
}

const serviceColumns = `id, professional_id, name, COALESCE(description, ''), duration, price, is_active, created_at, updated_at`

func scanService(row pgx.Row) (*model.Service, error) {
	var s model.Service
	err := row.Scan(
		&s.ID,
		&s.ProfessionalID,
		&s.Name,
		&s.Description,
		&s.DurationMinutes,
		&s.Price,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (professional_id, name, description, duration, price, is_active)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		s.ProfessionalID,
		s.Name,
		s.Description,
		s.DurationMinutes,
		s.Price,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

// GetByID возвращает nil, если услуги нет.
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	s, err := scanService(r.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return s, nil
}

func (r *ServiceRepository) GetByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE professional_id = $1 ORDER BY name`

	rows, err := r.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get services by professional: %w", err)
	}
	services, err := base.Collect(rows, scanService)
	if err != nil {
		return nil, fmt.Errorf("scan service: %w", err)
	}
	return services, nil
}

// GetActive возвращает все активные услуги.
func (r *ServiceRepository) GetActive(ctx context.Context) ([]*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE is_active = true ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active services: %w", err)
	}
	services, err := base.Collect(rows, scanService)
	if err != nil {
		return nil, fmt.Errorf("scan service: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = NULLIF($2, ''), duration = $3, price = $4, is_active = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, s.Name, s.Description, s.DurationMinutes, s.Price, s.IsActive, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update service: %w", ErrNotFound)
		}
		return fmt.Errorf("update service: %w", err)
	}

	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.ExecAffected(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete service: %w", ErrNotFound)
	}
	return nil
}
