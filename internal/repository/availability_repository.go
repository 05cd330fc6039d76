package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityRepository хранит еженедельные рабочие часы.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

const availabilityColumns = `id, professional_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`

func scanAvailability(row pgx.Row) (model.WeeklyAvailability, error) {
	var (
		a          model.WeeklyAvailability
		start, end pgtype.Time
	)
	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.DayOfWeek,
		&start,
		&end,
		&a.IsAvailable,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}
	a.StartTime = base.TimeOfDay(start)
	a.EndTime = base.TimeOfDay(end)
	return a, nil
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *model.WeeklyAvailability) error {
	query := `
		INSERT INTO professional_availability (professional_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		a.ProfessionalID,
		a.DayOfWeek,
		base.Time(a.StartTime),
		base.Time(a.EndTime),
		a.IsAvailable,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create availability: %w", err)
	}

	return nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyAvailability, error) {
	a, err := scanAvailability(r.QueryRow(ctx, `SELECT `+availabilityColumns+` FROM professional_availability WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability by id: %w", err)
	}
	return &a, nil
}

// GetByProfessionalID возвращает все правила по дню недели и времени начала.
func (r *AvailabilityRepository) GetByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]model.WeeklyAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM professional_availability
		WHERE professional_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get availability by professional: %w", err)
	}
	rules, err := base.Collect(rows, scanAvailability)
	if err != nil {
		return nil, fmt.Errorf("scan availability: %w", err)
	}
	return rules, nil
}

// GetByProfessionalAndWeekday возвращает все правила одного дня недели.
func (r *AvailabilityRepository) GetByProfessionalAndWeekday(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM professional_availability
		WHERE professional_id = $1 AND day_of_week = $2
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, professionalID, weekday)
	if err != nil {
		return nil, fmt.Errorf("get availability by weekday: %w", err)
	}
	rules, err := base.Collect(rows, scanAvailability)
	if err != nil {
		return nil, fmt.Errorf("scan availability: %w", err)
	}
	return rules, nil
}

func (r *AvailabilityRepository) Update(ctx context.Context, a *model.WeeklyAvailability) error {
	query := `
		UPDATE professional_availability
		SET day_of_week = $1, start_time = $2, end_time = $3, is_available = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, a.DayOfWeek, base.Time(a.StartTime), base.Time(a.EndTime), a.IsAvailable, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update availability: %w", ErrNotFound)
		}
		return fmt.Errorf("update availability: %w", err)
	}

	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.ExecAffected(ctx, `DELETE FROM professional_availability WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete availability: %w", ErrNotFound)
	}
	return nil
}
