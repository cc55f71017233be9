package errors

import "errors"

var (
	ErrNotReservation = errors.New("message is not a reservation request")

	ErrSlotTaken = errors.New("requested slot conflicts with an existing booking")

	ErrRecordNotFound = errors.New("booking record not found")
)
