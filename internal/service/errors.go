package service

import "errors"

var (
	// ErrInvalidSignature is returned when a payment callback fails the
	// provider signature check. Nothing else runs after this.
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrCarAlreadySold is returned when checkout is attempted for a car
	// that has already been sold.
	ErrCarAlreadySold = errors.New("car is already sold")

	// ErrCompletionConflict is returned when a completion lost the race
	// against a different buyer's completion for the same subject.
	ErrCompletionConflict = errors.New("subject was completed by a concurrent request")

	// ErrInvalidAmount is returned when the checkout amount is not positive.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrInvalidCarID is returned when the car ID is empty.
	ErrInvalidCarID = errors.New("invalid car id")

	// ErrInvalidProviderID is returned when the service provider ID is empty.
	ErrInvalidProviderID = errors.New("invalid service provider id")

	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidPaymentRef is returned when the provider payment or order
	// reference is empty.
	ErrInvalidPaymentRef = errors.New("invalid payment reference")
)
