package domain

import "errors"

var (
	// ErrInvalidHash is returned when a transaction id is not 32 bytes of hex.
	ErrInvalidHash = errors.New("hash must be a 32 bytes hex string")
	// ErrInvalidAmount is returned when an amount is not a decimal number.
	ErrInvalidAmount = errors.New("amount is not a valid decimal number")
	// ErrAmountOutOfRange is returned when an amount exceeds the scale bounds.
	ErrAmountOutOfRange = errors.New("amount exponent out of range")
	// ErrMissingAccount is returned when an account root has no account id.
	ErrMissingAccount = errors.New("account root must have an account")
	// ErrIncompleteAccountRoot is returned when a full snapshot is expected
	// but some fields are missing.
	ErrIncompleteAccountRoot = errors.New("account root fields are incomplete")
	// ErrAccountRootNotFound is returned when no snapshot is stored for an
	// account.
	ErrAccountRootNotFound = errors.New("account root not found")
)
