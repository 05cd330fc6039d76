package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/availability"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	// пятница, полдень. Специалист работает по понедельникам 09:00-12:00.
	fixtureNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	monday     = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *memStore
	sink  *recordingSink

	availability *AvailabilityService
	notifier     *NotificationService
	booking      *BookingService
	professional *ProfessionalService
	reviews      *ReviewService
	catalog      *CatalogService
	users        *UserService
	dashboards   *DashboardService

	pro, otherPro, client, otherClient, admin *model.Profile
	service                                   *model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	store := newMemStore()
	sink := &recordingSink{}
	appointments := memAppointments{store}

	cfg := DefaultAvailabilityConfig()
	cfg.Retry = availability.RetryConfig{Attempts: 1, Base: time.Millisecond, Max: time.Millisecond}

	source := NewRepositorySource(memRules{store}, memBlocks{store}, appointments, memServices{store})

	f := &fixture{store: store, sink: sink}
	f.availability = NewAvailabilityService(source, cfg, logger)
	f.notifier = NewNotificationService(memNotifications{store}, appointments, sink, logger)
	f.notifier.now = func() time.Time { return fixtureNow }
	f.booking = NewBookingService(appointments, memServices{store}, f.availability, f.notifier, logger)
	f.booking.now = func() time.Time { return fixtureNow }
	f.professional = NewProfessionalService(memServices{store}, memRules{store}, memBlocks{store}, logger)
	f.reviews = NewReviewService(memReviews{store}, appointments, sink, logger)
	f.catalog = NewCatalogService(memServices{f.store}, memReviews{f.store})
	f.users = NewUserService(memProfiles{store}, logger)
	f.dashboards = NewDashboardService(memProfiles{store}, appointments, memNotifications{store}, memReviews{store})
	for _, b := range f.dashboards.builders {
		switch d := b.(type) {
		case *clientDashboards:
			d.now = func() time.Time { return fixtureNow }
		case *professionalDashboards:
			d.now = func() time.Time { return fixtureNow }
		}
	}

	f.pro = f.addProfile(t, 1, "Pro", model.RoleProfessional)
	f.otherPro = f.addProfile(t, 2, "Other Pro", model.RoleProfessional)
	f.client = f.addProfile(t, 3, "Client", model.RoleClient)
	f.otherClient = f.addProfile(t, 4, "Other Client", model.RoleClient)
	f.admin = f.addProfile(t, 5, "Admin", model.RoleAdmin)

	svc, err := f.professional.CreateService(f.as(f.pro), "Haircut", "", 60, 5000)
	require.NoError(t, err)
	f.service = svc

	_, err = f.professional.SetAvailability(f.as(f.pro), int(time.Monday), mustTime(t, "09:00"), mustTime(t, "12:00"), true)
	require.NoError(t, err)

	return f
}

func (f *fixture) addProfile(t *testing.T, telegramID int64, name string, role model.Role) *model.Profile {
	t.Helper()
	p := &model.Profile{TelegramID: telegramID, FullName: name, Role: role}
	require.NoError(t, memProfiles{f.store}.Create(context.Background(), p))
	return p
}

func (f *fixture) as(p *model.Profile) context.Context {
	return actor.WithActor(context.Background(), actor.FromProfile(p))
}

// book записывает p на услугу в понедельник в hhmm.
func (f *fixture) book(t *testing.T, p *model.Profile, hhmm string) *model.Appointment {
	t.Helper()
	appt, err := f.booking.BookAppointment(f.as(p), f.service.ID, at(t, monday, hhmm), "")
	require.NoError(t, err)
	return appt
}

func mustTime(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	tod, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func at(t *testing.T, day time.Time, hhmm string) time.Time {
	t.Helper()
	return mustTime(t, hhmm).On(day)
}
