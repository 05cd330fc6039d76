package repository

import "errors"

var (
	// ErrNotFound запись не нашла ни одной строки.
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken у специалиста уже есть неотменённая запись на это время.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrAlreadyReviewed у записи уже есть отзыв.
	ErrAlreadyReviewed = errors.New("appointment already reviewed")
	// ErrDuplicate уникальное поле профиля уже занято.
	ErrDuplicate = errors.New("duplicate record")
)
