package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/google/uuid"
)

// memStore держит все таблицы в памяти под одним мьютексом. Интерфейсы хранилищ
// реализуют типы-обёртки ниже.
type memStore struct {
	mu            sync.Mutex
	profiles      map[uuid.UUID]*model.Profile
	services      map[uuid.UUID]*model.Service
	rules         map[uuid.UUID]*model.WeeklyAvailability
	blocks        map[uuid.UUID]*model.BlockedSlot
	appointments  map[uuid.UUID]*model.Appointment
	notifications []model.AppointmentNotification
	reviews       map[uuid.UUID]*model.Review // по записи

	rulesErr error
}

func newMemStore() *memStore {
	return &memStore{
		profiles:     make(map[uuid.UUID]*model.Profile),
		services:     make(map[uuid.UUID]*model.Service),
		rules:        make(map[uuid.UUID]*model.WeeklyAvailability),
		blocks:       make(map[uuid.UUID]*model.BlockedSlot),
		appointments: make(map[uuid.UUID]*model.Appointment),
		reviews:      make(map[uuid.UUID]*model.Review),
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type memProfiles struct{ *memStore }

func (m memProfiles) Create(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if p.TelegramID != 0 && existing.TelegramID == p.TelegramID {
			return repository.ErrDuplicate
		}
	}
	p.ID = uuid.New()
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m memProfiles) GetByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m memProfiles) GetByTelegramID(_ context.Context, telegramID int64) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.TelegramID == telegramID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memProfiles) Update(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m memProfiles) CountByRole(context.Context) (map[model.Role]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.Role]int)
	for _, p := range m.profiles {
		counts[p.Role]++
	}
	return counts, nil
}

type memServices struct{ *memStore }

func (m memServices) Create(_ context.Context, s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	cp := *s
	m.services[s.ID] = &cp
	return nil
}

func (m memServices) GetByID(_ context.Context, id uuid.UUID) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.services[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m memServices) GetByProfessionalID(_ context.Context, professionalID uuid.UUID) ([]*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Service
	for _, s := range m.services {
		if s.ProfessionalID == professionalID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memServices) GetActive(context.Context) ([]*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Service
	for _, s := range m.services {
		if s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memServices) Update(_ context.Context, s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	m.services[s.ID] = &cp
	return nil
}

func (m memServices) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.services, id)
	return nil
}

type memRules struct{ *memStore }

func (m memRules) Create(_ context.Context, a *model.WeeklyAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	m.rules[a.ID] = &cp
	return nil
}

func (m memRules) GetByID(_ context.Context, id uuid.UUID) (*model.WeeklyAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.rules[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m memRules) GetByProfessionalID(_ context.Context, professionalID uuid.UUID) ([]model.WeeklyAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.WeeklyAvailability
	for _, a := range m.rules {
		if a.ProfessionalID == professionalID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m memRules) GetByProfessionalAndWeekday(_ context.Context, professionalID uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rulesErr != nil {
		return nil, m.rulesErr
	}
	var out []model.WeeklyAvailability
	for _, a := range m.rules {
		if a.ProfessionalID == professionalID && a.DayOfWeek == weekday {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m memRules) Update(_ context.Context, a *model.WeeklyAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.rules[a.ID] = &cp
	return nil
}

func (m memRules) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

type memBlocks struct{ *memStore }

func (m memBlocks) Create(_ context.Context, b *model.BlockedSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	cp := *b
	m.blocks[b.ID] = &cp
	return nil
}

func (m memBlocks) GetByProfessionalAndDate(_ context.Context, professionalID uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BlockedSlot
	for _, b := range m.blocks {
		if b.ProfessionalID == professionalID && sameDay(b.Date, date) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m memBlocks) GetByProfessionalInRange(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.BlockedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BlockedSlot
	for _, b := range m.blocks {
		if b.ProfessionalID == professionalID && !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m memBlocks) Delete(_ context.Context, professionalID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blocks[id]
	if !ok || b.ProfessionalID != professionalID {
		return repository.ErrNotFound
	}
	delete(m.blocks, id)
	return nil
}

type memAppointments struct{ *memStore }

func (m memAppointments) withService(a model.Appointment) model.Appointment {
	if s, ok := m.services[a.ServiceID]; ok {
		a.DurationMinutes = s.DurationMinutes
		cp := *s
		a.Service = &cp
	}
	return a
}

func (m memAppointments) list(keep func(*model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, a := range m.appointments {
		if keep(a) {
			out = append(out, m.withService(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (m memAppointments) Create(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.appointments {
		if existing.ProfessionalID == a.ProfessionalID && existing.StartsAt.Equal(a.StartsAt) && existing.OccupiesSlot() {
			return repository.ErrSlotTaken
		}
	}
	a.ID = uuid.New()
	cp := *a
	cp.Service = nil
	m.appointments[a.ID] = &cp
	return nil
}

func (m memAppointments) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.appointments[id]; ok {
		cp := m.withService(*a)
		return &cp, nil
	}
	return nil, nil
}

func (m memAppointments) GetByProfessionalAndDate(_ context.Context, professionalID uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(a *model.Appointment) bool {
		return a.ProfessionalID == professionalID && sameDay(a.StartsAt, date) && !slices.Contains(exclude, a.Status)
	}), nil
}

func (m memAppointments) GetByClientID(_ context.Context, clientID uuid.UUID) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(a *model.Appointment) bool { return a.ClientID == clientID }), nil
}

func (m memAppointments) GetByProfessionalID(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(a *model.Appointment) bool {
		return a.ProfessionalID == professionalID && !a.StartsAt.Before(from) && a.StartsAt.Before(to)
	}), nil
}

func (m memAppointments) GetPendingByProfessionalID(_ context.Context, professionalID uuid.UUID) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(a *model.Appointment) bool {
		return a.ProfessionalID == professionalID && a.Status == model.AppointmentStatusPending
	}), nil
}

func (m memAppointments) GetDueForReminder(_ context.Context, from, to time.Time) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(a *model.Appointment) bool {
		return a.IsActive() && a.RemindedAt == nil && !a.StartsAt.Before(from) && !a.StartsAt.After(to)
	}), nil
}

func (m memAppointments) MarkReminded(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RemindedAt = &at
	return nil
}

func (m memAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m memAppointments) SetConfirmation(_ context.Context, id uuid.UUID, c model.Confirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Confirmation = c
	return nil
}

func (m memAppointments) CountByStatus(context.Context) (map[model.AppointmentStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.AppointmentStatus]int)
	for _, a := range m.appointments {
		counts[a.Status]++
	}
	return counts, nil
}

func (m memAppointments) Revenue(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, a := range m.appointments {
		if s, ok := m.services[a.ServiceID]; ok && a.Status == model.AppointmentStatusCompleted {
			total += int64(s.Price)
		}
	}
	return total, nil
}

type memNotifications struct{ *memStore }

func (m memNotifications) Create(_ context.Context, n *model.AppointmentNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m memNotifications) GetByUserID(_ context.Context, userID uuid.UUID, limit int) ([]model.AppointmentNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AppointmentNotification
	for i := len(m.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifications[i].UserID == userID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m memNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, x := range m.notifications {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n, nil
}

func (m memNotifications) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) notificationsFor(userID uuid.UUID) []model.AppointmentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AppointmentNotification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type memReviews struct{ *memStore }

func (m memReviews) Create(_ context.Context, rv *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[rv.AppointmentID]; ok {
		return repository.ErrAlreadyReviewed
	}
	rv.ID = uuid.New()
	cp := *rv
	m.reviews[rv.AppointmentID] = &cp
	return nil
}

func (m memReviews) GetByServiceID(_ context.Context, serviceID uuid.UUID) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Review
	for _, rv := range m.reviews {
		if rv.ServiceID == serviceID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m memReviews) GetByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rv, ok := m.reviews[appointmentID]; ok {
		cp := *rv
		return &cp, nil
	}
	return nil, nil
}

func (m memReviews) AverageForProfessional(_ context.Context, professionalID uuid.UUID) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, n int
	for _, rv := range m.reviews {
		if rv.ProfessionalID == professionalID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// recordingSink запоминает отправленные события.
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (s *recordingSink) Emit(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) types() []events.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Type, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}
