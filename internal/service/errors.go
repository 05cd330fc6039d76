package service

import "errors"

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAvailabilityNotFound = errors.New("availability rule not found")
	ErrNotOwner             = errors.New("not the owner")

	ErrInvalidService      = errors.New("invalid service")
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrInvalidBlock        = errors.New("invalid blocked range")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidFilter       = errors.New("invalid service filter")

	ErrPastDate          = errors.New("date is in the past")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrSelfBooking       = errors.New("cannot book own service")
	ErrInvalidTransition = errors.New("appointment status does not allow this action")
	ErrNotReviewable     = errors.New("appointment cannot be reviewed")

	// ErrDelivery: событие сохранено, но не доставлено.
	ErrDelivery = errors.New("event delivery failed")
)
