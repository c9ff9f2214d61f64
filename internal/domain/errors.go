package domain

import "errors"

// ErrorClass groups domain errors by how callers should react to them.
type ErrorClass int

// Error classes.
const (
	ClassUnknown ErrorClass = iota
	ClassNotFound
	ClassValidation
	ClassStateConflict
	ClassInsufficientFunds
)

var classes = map[error]ErrorClass{
	ErrAccountNotFound:     ClassNotFound,
	ErrTransactionNotFound: ClassNotFound,

	ErrInvalidAmount:              ClassValidation,
	ErrAmountTooSmall:             ClassValidation,
	ErrAmountTooLarge:             ClassValidation,
	ErrSignMismatch:               ClassValidation,
	ErrUnsupportedCurrency:        ClassValidation,
	ErrUnsupportedTransactionType: ClassValidation,
	ErrNonPositiveAmount:          ClassValidation,
	ErrNegativeBalanceResult:      ClassValidation,
	ErrMissingIdempotencyKey:      ClassValidation,

	ErrIllegalStatusTransition: ClassStateConflict,
	ErrAccountClosed:           ClassStateConflict,
	ErrAccountSuspended:        ClassStateConflict,
	ErrAccountNotActive:        ClassStateConflict,

	ErrInsufficientFunds: ClassInsufficientFunds,
}

// Classify returns the class of err, looking through wrapped errors.
func Classify(err error) ErrorClass {
	for sentinel, class := range classes {
		if errors.Is(err, sentinel) {
			return class
		}
	}

	return ClassUnknown
}
