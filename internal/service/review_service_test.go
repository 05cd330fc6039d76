package service

import (
	"testing"

	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReview(t *testing.T) {
	f := newFixture(t)
	attended := f.book(t, f.client, "09:00")
	missed := f.book(t, f.client, "10:00")
	open := f.book(t, f.client, "11:00")

	_, err := f.booking.Complete(f.as(f.pro), attended.ID)
	require.NoError(t, err)
	_, err = f.booking.MarkNoShow(f.as(f.pro), missed.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uuid.UUID
		rating  int
		wantErr error
	}{
		{"rating too low", attended.ID, 0, ErrInvalidRating},
		{"rating too high", attended.ID, 6, ErrInvalidRating},
		{"unknown appointment", uuid.New(), 5, ErrAppointmentNotFound},
		{"not completed", open.ID, 5, ErrNotReviewable},
		{"no-show", missed.ID, 5, ErrNotReviewable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.AddReview(f.as(f.client), tt.id, tt.rating, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = f.reviews.AddReview(f.as(f.otherClient), attended.ID, 5, "")
	assert.ErrorIs(t, err, ErrNotOwner)

	rv, err := f.reviews.AddReview(f.as(f.client), attended.ID, 4, " great ")
	require.NoError(t, err)
	assert.Equal(t, "great", rv.Comment)
	assert.Equal(t, f.pro.ID, rv.ProfessionalID)
	assert.Contains(t, f.sink.types(), events.ReviewCreated)

	_, err = f.reviews.AddReview(f.as(f.client), attended.ID, 5, "")
	assert.ErrorIs(t, err, repository.ErrAlreadyReviewed)

	avg, n, err := f.reviews.ProfessionalRating(f.as(f.client), f.pro.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.InDelta(t, 4.0, avg, 0.001)

	list, err := f.reviews.ListForService(f.as(f.client), f.service.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
