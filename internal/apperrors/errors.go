// Package apperrors defines the error taxonomy shared by the purchase
// engine and the HTTP layer. Handlers match these with errors.As to pick
// a status code and message.
package apperrors

import "fmt"

// ValidationError reports bad input or a failed business precondition
// (no capacity left, event not purchasable, non-positive quantity).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a dangling reference to a user, event or ticket type.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// PaymentDeclinedError reports that the payment gateway rejected the charge.
type PaymentDeclinedError struct {
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	return e.Message
}

func NewPaymentDeclined(message string) *PaymentDeclinedError {
	return &PaymentDeclinedError{Message: message}
}

// PersistenceError reports a transaction that failed to commit for
// infrastructure reasons. The transaction has been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// EncodingError reports a QR payload that could not be encoded.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qr encoding failed: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func NewEncoding(err error) *EncodingError {
	return &EncodingError{Err: err}
}
