package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"golang.org/x/sync/errgroup"
)

// Dashboard сводка для пользователя в зависимости от роли.
type Dashboard interface {
	Role() model.Role
}

type ClientDashboard struct {
	Upcoming      []model.Appointment
	Notifications []model.AppointmentNotification
	Unread        int
}

func (ClientDashboard) Role() model.Role { return model.RoleClient }

type ProfessionalDashboard struct {
	Today   []model.Appointment
	Pending []model.Appointment
	Rating  float64
	Reviews int
}

func (ProfessionalDashboard) Role() model.Role { return model.RoleProfessional }

type AdminDashboard struct {
	Profiles     map[model.Role]int
	Appointments map[model.AppointmentStatus]int
	Revenue      int64 // копейки, завершённые записи
}

func (AdminDashboard) Role() model.Role { return model.RoleAdmin }

type dashboardBuilder interface {
	build(ctx context.Context, a actor.Actor) (Dashboard, error)
}

type DashboardService struct {
	builders map[model.Role]dashboardBuilder
}

func NewDashboardService(
	profiles ProfileStore,
	appointments AppointmentStore,
	notifications NotificationStore,
	reviews ReviewStore,
) *DashboardService {
	return &DashboardService{
		builders: map[model.Role]dashboardBuilder{
			model.RoleClient:       &clientDashboards{appointments: appointments, notifications: notifications, now: time.Now},
			model.RoleProfessional: &professionalDashboards{appointments: appointments, reviews: reviews, now: time.Now},
			model.RoleAdmin:        &adminDashboards{profiles: profiles, appointments: appointments},
		},
	}
}

// Get собирает сводку по роли текущего пользователя.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}
	b, ok := s.builders[a.Role]
	if !ok {
		return nil, fmt.Errorf("no dashboard for role %q: %w", a.Role, actor.ErrForbidden)
	}
	return b.build(ctx, a)
}

type clientDashboards struct {
	appointments  AppointmentStore
	notifications NotificationStore
	now           func() time.Time
}

func (b *clientDashboards) build(ctx context.Context, a actor.Actor) (Dashboard, error) {
	var d ClientDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := b.appointments.GetByClientID(gctx, a.ProfileID)
		if err != nil {
			return fmt.Errorf("get client appointments: %w", err)
		}
		d.Upcoming = upcoming(all, wallClock(b.now()))
		return nil
	})
	g.Go(func() error {
		list, err := b.notifications.GetByUserID(gctx, a.ProfileID, defaultNotifications)
		if err != nil {
			return fmt.Errorf("get notifications: %w", err)
		}
		d.Notifications = list
		return nil
	})
	g.Go(func() error {
		n, err := b.notifications.CountUnread(gctx, a.ProfileID)
		if err != nil {
			return fmt.Errorf("count unread notifications: %w", err)
		}
		d.Unread = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

type professionalDashboards struct {
	appointments AppointmentStore
	reviews      ReviewStore
	now          func() time.Time
}

func (b *professionalDashboards) build(ctx context.Context, a actor.Actor) (Dashboard, error) {
	var d ProfessionalDashboard

	now := wallClock(b.now())
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		today, err := b.appointments.GetByProfessionalID(gctx, a.ProfileID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("get today's appointments: %w", err)
		}
		for _, appt := range today {
			if appt.Status != model.AppointmentStatusCancelled {
				d.Today = append(d.Today, appt)
			}
		}
		return nil
	})
	g.Go(func() error {
		pending, err := b.appointments.GetPendingByProfessionalID(gctx, a.ProfileID)
		if err != nil {
			return fmt.Errorf("get pending appointments: %w", err)
		}
		d.Pending = pending
		return nil
	})
	g.Go(func() error {
		avg, n, err := b.reviews.AverageForProfessional(gctx, a.ProfileID)
		if err != nil {
			return fmt.Errorf("get rating: %w", err)
		}
		d.Rating, d.Reviews = avg, n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

type adminDashboards struct {
	profiles     ProfileStore
	appointments AppointmentStore
}

func (b *adminDashboards) build(ctx context.Context, _ actor.Actor) (Dashboard, error) {
	var d AdminDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := b.profiles.CountByRole(gctx)
		if err != nil {
			return fmt.Errorf("count profiles: %w", err)
		}
		d.Profiles = counts
		return nil
	})
	g.Go(func() error {
		counts, err := b.appointments.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("count appointments: %w", err)
		}
		d.Appointments = counts
		return nil
	})
	g.Go(func() error {
		revenue, err := b.appointments.Revenue(gctx)
		if err != nil {
			return fmt.Errorf("sum revenue: %w", err)
		}
		d.Revenue = revenue
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
