package services

import "errors"

// Common service errors
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrUnitConflict = errors.New("unit already leased for that period")
	ErrOverpayment  = errors.New("payment exceeds invoice balance")
	ErrDuplicate    = errors.New("duplicate record")
)
