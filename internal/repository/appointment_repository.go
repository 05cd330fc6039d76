package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// appointmentSelect присоединяет услугу, чтобы знать длительность записи.
const appointmentSelect = `
	SELECT a.id, a.professional_id, a.client_id, a.service_id, a.appointment_date, a.status,
	       COALESCE(a.appointment_confirmation, ''), COALESCE(a.notes, ''), a.reminded_at,
	       a.created_at, a.updated_at, COALESCE(s.duration, 0), COALESCE(s.name, '')
	FROM appointments a
	LEFT JOIN services s ON s.id = a.service_id
`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var (
		a           model.Appointment
		serviceName string
	)
	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.ClientID,
		&a.ServiceID,
		&a.StartsAt,
		&a.Status,
		&a.Confirmation,
		&a.Notes,
		&a.RemindedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.DurationMinutes,
		&serviceName,
	)
	if err != nil {
		return a, err
	}
	if serviceName != "" {
		a.Service = &model.Service{
			ID:              a.ServiceID,
			ProfessionalID:  a.ProfessionalID,
			Name:            serviceName,
			DurationMinutes: a.DurationMinutes,
		}
	}
	return a, nil
}

func (r *AppointmentRepository) list(ctx context.Context, op, query string, args ...any) ([]model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	appointments, err := base.Collect(rows, scanAppointment)
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	return appointments, nil
}

// Create создаёт запись в статусе pending. Вторая неотменённая запись к тому же
// специалисту на то же время вернёт ErrSlotTaken.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	if a.Status == "" {
		a.Status = model.AppointmentStatusPending
	}

	query := `
		INSERT INTO appointments (professional_id, client_id, service_id, appointment_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		a.ProfessionalID,
		a.ClientID,
		a.ServiceID,
		a.StartsAt,
		string(a.Status),
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, err := scanAppointment(r.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return &a, nil
}

// GetByProfessionalAndDate возвращает записи на дату date без статусов из exclude.
func (r *AppointmentRepository) GetByProfessionalAndDate(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	y, m, d := date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	statuses := make([]string, 0, len(exclude))
	for _, s := range exclude {
		statuses = append(statuses, string(s))
	}

	query := appointmentSelect + `
		WHERE a.professional_id = $1
		  AND a.appointment_date >= $2 AND a.appointment_date < $3
		  AND a.status <> ALL($4::text[])
		ORDER BY a.appointment_date
	`
	return r.list(ctx, "get appointments by professional and date", query, professionalID, from, from.AddDate(0, 0, 1), statuses)
}

func (r *AppointmentRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]model.Appointment, error) {
	query := appointmentSelect + ` WHERE a.client_id = $1 ORDER BY a.appointment_date DESC`
	return r.list(ctx, "get appointments by client", query, clientID)
}

// GetByProfessionalID возвращает записи с началом в [from, to).
func (r *AppointmentRepository) GetByProfessionalID(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	query := appointmentSelect + `
		WHERE a.professional_id = $1 AND a.appointment_date >= $2 AND a.appointment_date < $3
		ORDER BY a.appointment_date
	`
	return r.list(ctx, "get appointments by professional", query, professionalID, from, to)
}

func (r *AppointmentRepository) GetPendingByProfessionalID(ctx context.Context, professionalID uuid.UUID) ([]model.Appointment, error) {
	query := appointmentSelect + `
		WHERE a.professional_id = $1 AND a.status = 'pending'
		ORDER BY a.appointment_date
	`
	return r.list(ctx, "get pending appointments", query, professionalID)
}

// GetDueForReminder возвращает активные записи без напоминания с началом в [from, to].
func (r *AppointmentRepository) GetDueForReminder(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	query := appointmentSelect + `
		WHERE a.status IN ('pending', 'confirmed')
		  AND a.reminded_at IS NULL
		  AND a.appointment_date BETWEEN $1 AND $2
		ORDER BY a.appointment_date
	`
	return r.list(ctx, "get appointments due for reminder", query, from, to)
}

func (r *AppointmentRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.ExecAffected(ctx, `UPDATE appointments SET reminded_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("mark appointment reminded: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark appointment reminded: %w", ErrNotFound)
	}
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2`

	n, err := r.ExecAffected(ctx, query, string(status), id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update appointment status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update appointment status: %w", ErrNotFound)
	}
	return nil
}

func (r *AppointmentRepository) SetConfirmation(ctx context.Context, id uuid.UUID, c model.Confirmation) error {
	query := `UPDATE appointments SET appointment_confirmation = NULLIF($1, ''), updated_at = now() WHERE id = $2`

	n, err := r.ExecAffected(ctx, query, string(c), id)
	if err != nil {
		return fmt.Errorf("set appointment confirmation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set appointment confirmation: %w", ErrNotFound)
	}
	return nil
}

// CountByStatus считает записи по статусам.
func (r *AppointmentRepository) CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error) {
	rows, err := r.Query(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.AppointmentStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan appointment count: %w", err)
		}
		counts[model.AppointmentStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	return counts, nil
}

// Revenue сумма цен завершённых записей в копейках.
func (r *AppointmentRepository) Revenue(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(s.price), 0)
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.status = 'completed'
	`

	var total int64
	if err := r.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}
