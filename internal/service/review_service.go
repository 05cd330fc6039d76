package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/actor"
	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService struct {
	reviews      ReviewStore
	appointments AppointmentStore
	sink         events.Sink
	logger       *zap.Logger
}

func NewReviewService(reviews ReviewStore, appointments AppointmentStore, sink events.Sink, logger *zap.Logger) *ReviewService {
	if sink == nil {
		sink = events.Nop{}
	}
	return &ReviewService{
		reviews:      reviews,
		appointments: appointments,
		sink:         sink,
		logger:       logger,
	}
}

// AddReview оставляет оценку состоявшемуся визиту клиента. На одну запись один отзыв.
func (s *ReviewService) AddReview(ctx context.Context, appointmentID uuid.UUID, rating int, comment string) (*model.Review, error) {
	a, err := actor.Require(ctx)
	if err != nil {
		return nil, err
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, ErrInvalidRating
	}

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.ClientID != a.ProfileID {
		return nil, ErrNotOwner
	}
	if appt.Status != model.AppointmentStatusCompleted || appt.Confirmation == model.ConfirmationNoShow {
		return nil, ErrNotReviewable
	}

	rv := &model.Review{
		AppointmentID:  appt.ID,
		ServiceID:      appt.ServiceID,
		ProfessionalID: appt.ProfessionalID,
		ClientID:       a.ProfileID,
		Rating:         rating,
		Comment:        strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return nil, err
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("Review added",
		zap.String("review_id", rv.ID.String()),
		zap.String("appointment_id", appt.ID.String()),
		zap.Int("rating", rating),
	)

	e := events.New(events.ReviewCreated, appt.ProfessionalID, appt.ID, "Новый отзыв", fmt.Sprintf("Новый отзыв с оценкой %d/5", rating))
	e.Attributes = map[string]string{
		"review_id": rv.ID.String(),
		"rating":    strconv.Itoa(rating),
	}
	if err := s.sink.Emit(ctx, e); err != nil {
		s.logger.Warn("Failed to emit review event", zap.String("review_id", rv.ID.String()), zap.Error(err))
	}

	return rv, nil
}

func (s *ReviewService) ListForService(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error) {
	return s.reviews.GetByServiceID(ctx, serviceID)
}

// ProfessionalRating возвращает средний рейтинг и число отзывов.
func (s *ReviewService) ProfessionalRating(ctx context.Context, professionalID uuid.UUID) (float64, int, error) {
	return s.reviews.AverageForProfessional(ctx, professionalID)
}
