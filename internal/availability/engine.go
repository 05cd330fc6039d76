// Package availability считает слоты специалиста на один день.
//
// Движок зависит только от четырёх чтений: рабочие часы дня недели, услуга,
// блокировки даты и неотменённые записи на дату. Результат носит справочный
// характер, двойную запись отсекает запись в базу.
package availability

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultStep = 30 * time.Minute
	DateLayout  = "2006-01-02"
)

// Request параметры одного расчёта слотов.
type Request struct {
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	Date           time.Time
}

// ParseRequest проверяет идентификаторы и дату YYYY-MM-DD.
func ParseRequest(professionalID, date, serviceID string) (Request, error) {
	pid, err := uuid.Parse(strings.TrimSpace(professionalID))
	if err != nil {
		return Request{}, invalidInput("professional id %q", professionalID)
	}
	sid, err := uuid.Parse(strings.TrimSpace(serviceID))
	if err != nil {
		return Request{}, invalidInput("service id %q", serviceID)
	}
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Request{}, invalidInput("date %q", date)
	}
	return Request{ProfessionalID: pid, ServiceID: sid, Date: day}, nil
}

type Option func(*Engine)

// WithStep задаёт шаг сетки. Меньше минуты игнорируется.
func WithStep(step time.Duration) Option {
	return func(e *Engine) {
		if step >= time.Minute {
			e.step = step
		}
	}
}

func WithConflictPolicy(p ConflictPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithFetchTimeout ограничивает время каждого чтения. Ноль без ограничения.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.fetchTimeout = d
	}
}

type Engine struct {
	source       Source
	step         time.Duration
	policy       ConflictPolicy
	fetchTimeout time.Duration
}

func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		step:   DefaultStep,
		policy: ConflictExactStart,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy возвращает текущую политику конфликтов.
func (e *Engine) Policy() ConflictPolicy {
	return e.policy
}

// Compute вызывает ComputeAvailableSlots для Request.
func (e *Engine) Compute(ctx context.Context, req Request) ([]model.Slot, error) {
	return e.ComputeAvailableSlots(ctx, req.ProfessionalID, req.Date, req.ServiceID)
}

// ComputeAvailableSlots возвращает времена начала в рабочих окнах на дату date
// с отметкой свободно или занято. Без правил или услуги результат пуст, ошибка
// хранилища возвращается как *DataAccessError.
func (e *Engine) ComputeAvailableSlots(ctx context.Context, professionalID uuid.UUID, date time.Time, serviceID uuid.UUID) ([]model.Slot, error) {
	if professionalID == uuid.Nil {
		return nil, invalidInput("professional id is required")
	}
	if serviceID == uuid.Nil {
		return nil, invalidInput("service id is required")
	}
	if date.IsZero() {
		return nil, invalidInput("date is required")
	}

	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	weekday := int(day.Weekday())

	var rules []model.WeeklyAvailability
	err := e.fetch(ctx, "get weekly availability", func(ctx context.Context) error {
		var err error
		rules, err = e.source.WeeklyAvailability(ctx, professionalID, weekday)
		return err
	})
	if err != nil {
		return nil, err
	}

	windows := openWindows(rules, weekday)
	if len(windows) == 0 {
		return []model.Slot{}, nil
	}

	var (
		service      *model.Service
		blocks       []model.BlockedSlot
		appointments []model.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.fetch(gctx, "get service", func(ctx context.Context) error {
			var err error
			service, err = e.source.Service(ctx, serviceID)
			return err
		})
	})
	g.Go(func() error {
		return e.fetch(gctx, "get blocked slots", func(ctx context.Context) error {
			var err error
			blocks, err = e.source.BlockedSlots(ctx, professionalID, day)
			return err
		})
	})
	g.Go(func() error {
		return e.fetch(gctx, "get appointments", func(ctx context.Context) error {
			var err error
			appointments, err = e.source.Appointments(ctx, professionalID, day, model.AppointmentStatusCancelled)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if service == nil || !service.BookableBy(professionalID) {
		return []model.Slot{}, nil
	}

	return e.generate(windows, service.Duration(), blocks, appointments), nil
}

func (e *Engine) fetch(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		return &DataAccessError{Op: op, Err: err}
	}
	return nil
}

func (e *Engine) generate(windows []model.WeeklyAvailability, duration time.Duration, blocks []model.BlockedSlot, appointments []model.Appointment) []model.Slot {
	seen := make(map[model.TimeOfDay]struct{})
	slots := make([]model.Slot, 0)

	for _, w := range windows {
		for cursor := w.StartTime; cursor.Add(duration) <= w.EndTime; cursor = cursor.Add(e.step) {
			if _, dup := seen[cursor]; dup {
				continue
			}
			seen[cursor] = struct{}{}

			end := cursor.Add(duration)
			unavailable := e.policy.blocked(cursor, end, blocks) || e.policy.booked(cursor, end, appointments)
			slots = append(slots, model.Slot{Time: cursor, Available: !unavailable})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
	return slots
}

// openWindows оставляет открытые для записи окна дня недели.
func openWindows(rules []model.WeeklyAvailability, weekday int) []model.WeeklyAvailability {
	var open []model.WeeklyAvailability
	for _, r := range rules {
		if r.DayOfWeek == weekday && r.IsAvailable {
			open = append(open, r)
		}
	}
	return open
}
