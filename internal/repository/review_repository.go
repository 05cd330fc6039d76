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

type ReviewRepository struct {
	*base.Repository
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{Repository: base.NewRepository(pool)}
}

const reviewColumns = `id, appointment_id, service_id, professional_id, client_id, rating, COALESCE(comment, ''), created_at`

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.AppointmentID,
		&rv.ServiceID,
		&rv.ProfessionalID,
		&rv.ClientID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
	)
	return rv, err
}

// Create сохраняет отзыв. Повторный отзыв о записи вернёт ErrAlreadyReviewed.
func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	query := `
		INSERT INTO reviews (appointment_id, service_id, professional_id, client_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query,
		rv.AppointmentID,
		rv.ServiceID,
		rv.ProfessionalID,
		rv.ClientID,
		rv.Rating,
		rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) GetByServiceID(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error) {
	rows, err := r.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get reviews by service: %w", err)
	}
	reviews, err := base.Collect(rows, scanReview)
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.Review, error) {
	rv, err := scanReview(r.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE appointment_id = $1`, appointmentID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by appointment: %w", err)
	}
	return &rv, nil
}

// AverageForProfessional возвращает средний рейтинг и число отзывов.
func (r *ReviewRepository) AverageForProfessional(ctx context.Context, professionalID uuid.UUID) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE professional_id = $1`, professionalID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, count, nil
}
