// ABOUTME: Tests for the shared error taxonomy.
// ABOUTME: Covers not-found wrapping, validation errors, and decode errors.
package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("no plan for date 2026-03-02: %w", ErrNotFound)
	if !IsNotFound(wrapped) {
		t.Error("Expected wrapped ErrNotFound detected")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("Expected unrelated error rejected")
	}
	if IsNotFound(nil) {
		t.Error("Expected nil rejected")
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("days cannot exceed %d", 365)
	if err.Error() != "days cannot exceed 365" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsValidation(err) {
		t.Error("Expected IsValidation true")
	}

	wrapped := fmt.Errorf("import plan 2026-03-02: %w", err)
	if !IsValidation(wrapped) {
		t.Error("Expected wrapped validation error detected")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("Expected unrelated error rejected")
	}
	if IsValidation(nil) {
		t.Error("Expected nil rejected")
	}
}

func TestDecodeError(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := &DecodeError{Date: "2026-03-02", Err: inner}

	if !strings.Contains(err.Error(), "2026-03-02") {
		t.Errorf("Error() = %q, want date included", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Expected Unwrap to expose the inner error")
	}
}
