package handlers

import (
	"time"

	"github.com/Freeeeeet/booking_platform/internal/service"
	"go.uber.org/zap"
)

// Services — сервисы приложения, которые вызывают команды бота.
type Services struct {
	Users         *service.UserService
	Availability  *service.AvailabilityService
	Booking       *service.BookingService
	Professional  *service.ProfessionalService
	Notifications *service.NotificationService
	Reviews       *service.ReviewService
	Catalog       *service.CatalogService
	Dashboards    *service.DashboardService
}

type Handlers struct {
	users         *service.UserService
	availability  *service.AvailabilityService
	booking       *service.BookingService
	professional  *service.ProfessionalService
	notifications *service.NotificationService
	reviews       *service.ReviewService
	catalog       *service.CatalogService
	dashboards    *service.DashboardService
	logger        *zap.Logger
	now           func() time.Time
}

func NewHandlers(s Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		users:         s.Users,
		availability:  s.Availability,
		booking:       s.Booking,
		professional:  s.Professional,
		notifications: s.Notifications,
		reviews:       s.Reviews,
		catalog:       s.Catalog,
		dashboards:    s.Dashboards,
		logger:        logger,
		now:           time.Now,
	}
}
