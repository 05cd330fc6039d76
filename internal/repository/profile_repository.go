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

type ProfileRepository struct {
	*base.Repository
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{Repository: base.NewRepository(pool)}
}

const profileColumns = `id, COALESCE(telegram_id, 0), full_name, COALESCE(phone, ''), COALESCE(address, ''), user_role, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.TelegramID,
		&p.FullName,
		&p.Phone,
		&p.Address,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create сохраняет профиль и заполняет сгенерированные поля.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (telegram_id, full_name, phone, address, user_role)
		VALUES (NULLIF($1::bigint, 0), $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query, p.TelegramID, p.FullName, p.Phone, p.Address, p.Role).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create profile: %w", ErrDuplicate)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p, err := scanProfile(r.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Profile, error) {
	p, err := scanProfile(r.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE telegram_id = $1`, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by telegram id: %w", err)
	}
	return p, nil
}

// Update сохраняет изменяемые поля профиля.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, phone = NULLIF($2, ''), address = NULLIF($3, ''), user_role = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, p.FullName, p.Phone, p.Address, p.Role, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update profile: %w", ErrNotFound)
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

// CountByRole считает профили по ролям.
func (r *ProfileRepository) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := r.Query(ctx, `SELECT user_role, count(*) FROM profiles GROUP BY user_role`)
	if err != nil {
		return nil, fmt.Errorf("count profiles by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Role]int)
	for rows.Next() {
		var role model.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[role] = n
	}

	return counts, rows.Err()
}
