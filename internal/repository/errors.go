package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadySold is returned by a conditional sale update when the car
	// was already sold before the update ran.
	ErrAlreadySold = errors.New("car already sold")

	// ErrDuplicatePayment is returned when inserting a booking whose
	// payment ID has already been recorded.
	ErrDuplicatePayment = errors.New("payment already recorded")
)
