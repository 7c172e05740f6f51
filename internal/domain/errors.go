package domain

import "errors"

// Validation errors: the caller must fix its input and retry.
var (
	ErrDuplicatePassport = errors.New("passport already registered")
	ErrDateRangeInvalid  = errors.New("end date must be after start date")
	ErrDateInPast        = errors.New("start date is in the past")
	ErrDurationTooLong   = errors.New("stay exceeds maximum duration")
	ErrInvalidDiscount   = errors.New("discount rate out of range")
)

// Reference errors: the caller supplied a stale or unknown id.
var (
	ErrGuestNotFound   = errors.New("guest not found")
	ErrCapsuleNotFound = errors.New("capsule not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// State-conflict errors: the requested transition conflicts with entity state.
var (
	ErrCapsuleUnavailable = errors.New("capsule already occupied")
	ErrAlreadyPaid        = errors.New("booking already paid")
	ErrPaymentLocked      = errors.New("cannot cancel a paid booking")
)
