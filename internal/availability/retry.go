package availability

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

type RetryConfig struct {
	Attempts uint64
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetryConfig: три попытки, пауза от 1s с удвоением, не больше 10s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: 3,
		Base:     time.Second,
		Max:      10 * time.Second,
	}
}

// RetryingSource повторяет чтения Source при временных ошибках. Сам движок
// повторов не делает.
type RetryingSource struct {
	next      Source
	cfg       RetryConfig
	transient func(error) bool
}

func NewRetryingSource(next Source, cfg RetryConfig) *RetryingSource {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	if cfg.Base <= 0 {
		cfg.Base = time.Second
	}
	return &RetryingSource{
		next:      next,
		cfg:       cfg,
		transient: IsTransient,
	}
}

// IsTransient отличает ошибки соединения и таймауты, которые стоит повторить.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (s *RetryingSource) backoff() retry.Backoff {
	b := retry.NewExponential(s.cfg.Base)
	if s.cfg.Max > 0 {
		b = retry.WithCappedDuration(s.cfg.Max, b)
	}
	return retry.WithMaxRetries(s.cfg.Attempts-1, b)
}

func retryRead[T any](ctx context.Context, s *RetryingSource, read func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		v, err := read(ctx)
		if err != nil {
			if s.transient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (s *RetryingSource) WeeklyAvailability(ctx context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	return retryRead(ctx, s, func(ctx context.Context) ([]model.WeeklyAvailability, error) {
		return s.next.WeeklyAvailability(ctx, professionalID, weekday)
	})
}

func (s *RetryingSource) BlockedSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	return retryRead(ctx, s, func(ctx context.Context) ([]model.BlockedSlot, error) {
		return s.next.BlockedSlots(ctx, professionalID, date)
	})
}

func (s *RetryingSource) Appointments(ctx context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	return retryRead(ctx, s, func(ctx context.Context) ([]model.Appointment, error) {
		return s.next.Appointments(ctx, professionalID, date, exclude...)
	})
}

func (s *RetryingSource) Service(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	return retryRead(ctx, s, func(ctx context.Context) (*model.Service, error) {
		return s.next.Service(ctx, serviceID)
	})
}
