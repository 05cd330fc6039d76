package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlockedSlotRepository хранит разовые блокировки в таблице time_slots.
type BlockedSlotRepository struct {
	*base.Repository
}

func NewBlockedSlotRepository(pool *pgxpool.Pool) *BlockedSlotRepository {
	return &BlockedSlotRepository{Repository: base.NewRepository(pool)}
}

const blockedColumns = `id, professional_id, date, start_time, end_time, COALESCE(reason, ''), created_at`

func scanBlocked(row pgx.Row) (model.BlockedSlot, error) {
	var (
		b          model.BlockedSlot
		start, end pgtype.Time
	)
	err := row.Scan(&b.ID, &b.ProfessionalID, &b.Date, &start, &end, &b.Reason, &b.CreatedAt)
	if err != nil {
		return b, err
	}
	b.StartTime = base.TimeOfDay(start)
	b.EndTime = base.TimeOfDay(end)
	return b, nil
}

// Create сохраняет блокировку на одну дату.
func (r *BlockedSlotRepository) Create(ctx context.Context, b *model.BlockedSlot) error {
	query := `
		INSERT INTO time_slots (professional_id, date, start_time, end_time, is_blocked, reason)
		VALUES ($1, $2, $3, $4, true, NULLIF($5, ''))
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query,
		b.ProfessionalID,
		b.Date,
		base.Time(b.StartTime),
		base.Time(b.EndTime),
		b.Reason,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create blocked slot: %w", err)
	}

	return nil
}

// GetByProfessionalInRange возвращает блокировки с from <= date <= to.
func (r *BlockedSlotRepository) GetByProfessionalInRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.BlockedSlot, error) {
	query := `
		SELECT ` + blockedColumns + `
		FROM time_slots
		WHERE professional_id = $1 AND is_blocked = true AND date BETWEEN $2 AND $3
		ORDER BY date, start_time
	`

	rows, err := r.Query(ctx, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get blocked slots: %w", err)
	}
	blocks, err := base.Collect(rows, scanBlocked)
	if err != nil {
		return nil, fmt.Errorf("scan blocked slot: %w", err)
	}
	return blocks, nil
}

func (r *BlockedSlotRepository) GetByProfessionalAndDate(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	return r.GetByProfessionalInRange(ctx, professionalID, date, date)
}

// Delete удаляет блокировку специалиста professionalID.
func (r *BlockedSlotRepository) Delete(ctx context.Context, professionalID, id uuid.UUID) error {
	n, err := r.ExecAffected(ctx, `DELETE FROM time_slots WHERE id = $1 AND professional_id = $2`, id, professionalID)
	if err != nil {
		return fmt.Errorf("delete blocked slot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete blocked slot: %w", ErrNotFound)
	}
	return nil
}
