// ABOUTME: Error taxonomy shared across storage, sync, and transport layers.
// ABOUTME: Validation errors, the not-found sentinel, and decode errors for stored JSON.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is wrapped by lookups that miss (plans, logs, exercises).
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidationError reports caller input that fails document or field
// validation. Transport layers map it to a 400-class response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DecodeError reports a stored document blob that could not be parsed.
// Migration records these as warnings rather than aborting.
type DecodeError struct {
	Date string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode document for %s: %v", e.Date, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidateDate checks the YYYY-MM-DD calendar-date format.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return Validationf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return nil
}
