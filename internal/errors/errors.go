package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Common error types for the calendar client
var (
	// Token errors
	ErrDecode = errors.New("malformed bearer token")

	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Account errors
	ErrActivation = errors.New("account activation failed")

	// Form errors
	ErrValidation = errors.New("validation failed")

	// Transport errors
	ErrNetwork = errors.New("network error")

	// General errors
	ErrNotFound = errors.New("not found")
)

// NetworkError is returned for transport failures and non-2xx responses.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNetwork) match any NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// FieldError is a single failed form field check.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError collects field checks keyed by field name.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name].Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Code returns the failing check for a field, or "" when the field passed.
func (e *ValidationError) Code(field string) string {
	return e.Fields[field].Code
}

// StatusCode extracts the HTTP status of a NetworkError in err's chain.
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// FieldErrors converts ozzo-validation field errors into a ValidationError.
// Each rule's message is used as its code and message resolves the text shown
// to the user. Nested errors are flattened as "parent.child".
func FieldErrors(errs validation.Errors, message func(code string) string) *ValidationError {
	v := &ValidationError{Fields: make(map[string]FieldError)}
	flattenFieldErrors(v, "", errs, message)
	return v
}

func flattenFieldErrors(v *ValidationError, prefix string, errs validation.Errors, message func(code string) string) {
	for field, err := range errs {
		if err == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenFieldErrors(v, name, nested, message)
			continue
		}
		code := err.Error()
		v.Fields[name] = FieldError{Code: code, Message: message(code)}
	}
}

// Validation runs the result of an ozzo ValidateStruct through FieldErrors.
// Errors that are not field errors (a misconfigured rule) are returned as-is.
func Validation(err error, message func(code string) string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return FieldErrors(errs, message)
	}
	return err
}
