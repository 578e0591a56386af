package api

import (
	"errors"
	"fmt"

	"kes-exchange-go/internal/store"
	"kes-exchange-go/internal/validation"
)

type ErrorKind string

const (
	KindEmptyFields            ErrorKind = "EmptyFields"
	KindInvalidEmail           ErrorKind = "InvalidEmail"
	KindInvalidPhoneNumber     ErrorKind = "InvalidPhoneNumber"
	KindInvalidQuery           ErrorKind = "InvalidQuery"
	KindInvalidRating          ErrorKind = "InvalidRating"
	KindAlreadyExists          ErrorKind = "AlreadyExists"
	KindUserNotFound           ErrorKind = "UserNotFound"
	KindNotFound               ErrorKind = "NotFound"
	KindUnauthorized           ErrorKind = "Unauthorized"
	KindIncrementCounterFailed ErrorKind = "IncrementCounterFailed"
	KindRecordTooLarge         ErrorKind = "RecordTooLarge"
	KindStorageFailed          ErrorKind = "StorageFailed"
)

// Error is the only error type returned by ExchangeService handlers.
// errors.Is matches on Kind alone, so the sentinels below can be used as
// targets regardless of the message a handler attached.
type Error struct {
	Kind ErrorKind
	Msg  string

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

var (
	ErrEmptyFields            = &Error{Kind: KindEmptyFields, Msg: "All fields are required"}
	ErrInvalidEmail           = &Error{Kind: KindInvalidEmail, Msg: "Ensure the email address is of the correct format"}
	ErrInvalidPhoneNumber     = &Error{Kind: KindInvalidPhoneNumber, Msg: "Ensure the phone number is of the correct format"}
	ErrInvalidQuery           = &Error{Kind: KindInvalidQuery, Msg: "Query must be a valid email or phone number"}
	ErrInvalidRating          = &Error{Kind: KindInvalidRating, Msg: fmt.Sprintf("Rating must be between %d and %d", validation.MinRating, validation.MaxRating)}
	ErrAlreadyExists          = &Error{Kind: KindAlreadyExists, Msg: "Email already exists"}
	ErrUserNotFound           = &Error{Kind: KindUserNotFound, Msg: "User does not exist"}
	ErrNotFound               = &Error{Kind: KindNotFound, Msg: "Record not found"}
	ErrUnauthorized           = &Error{Kind: KindUnauthorized, Msg: "Cannot create a swap request for your own item"}
	ErrIncrementCounterFailed = &Error{Kind: KindIncrementCounterFailed, Msg: "Failed to increment the ID counter"}
	ErrRecordTooLarge         = &Error{Kind: KindRecordTooLarge, Msg: "Record exceeds the maximum stored size"}
	ErrStorageFailed          = &Error{Kind: KindStorageFailed, Msg: "Storage operation failed"}
)

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func fromValidation(err error) *Error {
	switch {
	case errors.Is(err, validation.ErrEmptyFields):
		return ErrEmptyFields
	case errors.Is(err, validation.ErrInvalidEmail):
		return ErrInvalidEmail
	case errors.Is(err, validation.ErrInvalidPhoneNumber):
		return ErrInvalidPhoneNumber
	case errors.Is(err, validation.ErrInvalidRating):
		return ErrInvalidRating
	default:
		return &Error{Kind: KindStorageFailed, Msg: err.Error(), cause: err}
	}
}

// fromStore classifies an infrastructure error, keeping it as the cause.
func fromStore(err error) *Error {
	switch {
	case errors.Is(err, store.ErrRecordTooLarge):
		return &Error{Kind: KindRecordTooLarge, Msg: ErrRecordTooLarge.Msg, cause: err}
	case errors.Is(err, store.ErrAllocationFailed):
		return &Error{Kind: KindIncrementCounterFailed, Msg: ErrIncrementCounterFailed.Msg, cause: err}
	default:
		return &Error{Kind: KindStorageFailed, Msg: ErrStorageFailed.Msg, cause: err}
	}
}
