// Package apperr defines the API error taxonomy and translates storage
// failures into it.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/evcraddock/realty/internal/db"
)

// Kind is a category of API failure with a fixed HTTP status.
type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	InvalidCredential
	Forbidden
	NotFound
	ValidationFailed
	DuplicateEmail
	DuplicateFavorite
	InvalidFieldValue
	InvalidOperation
)

var kindNames = map[Kind]string{
	Internal:          "InternalError",
	Unauthenticated:   "Unauthenticated",
	InvalidCredential: "InvalidCredential",
	Forbidden:         "Forbidden",
	NotFound:          "NotFound",
	ValidationFailed:  "ValidationFailed",
	DuplicateEmail:    "DuplicateEmail",
	DuplicateFavorite: "DuplicateFavorite",
	InvalidFieldValue: "InvalidFieldValue",
	InvalidOperation:  "InvalidOperation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidCredential, Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed, DuplicateEmail, DuplicateFavorite, InvalidFieldValue, InvalidOperation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is an API failure. Details carries the individual messages of a
// batched validation failure.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// MarshalJSON renders the response body: {"error": msg} plus "errors"
// when there are details.
func (e *Error) MarshalJSON() ([]byte, error) {
	body := struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors,omitempty"`
	}{e.Message, e.Details}
	return json.Marshal(body)
}

// New returns an Error of kind with message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error of kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation returns a ValidationFailed error listing every violation.
func Validation(details []string) *Error {
	return &Error{Kind: ValidationFailed, Message: "Validation failed", Details: details}
}

// From translates any error into an *Error. Application errors pass
// through, storage constraint failures map onto the taxonomy, and anything
// else becomes Internal with the raw message.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var se *db.StorageError
	if errors.As(err, &se) {
		return fromStorage(se)
	}

	return &Error{Kind: Internal, Message: err.Error(), Err: err}
}

func fromStorage(se *db.StorageError) *Error {
	switch se.Kind {
	case db.KindUnique:
		switch {
		case strings.Contains(se.Constraint, "email"):
			return &Error{Kind: DuplicateEmail, Message: "Email already in use", Err: se}
		case strings.Contains(se.Constraint, "favorites"):
			return &Error{Kind: DuplicateFavorite, Message: "Property already in favorites", Err: se}
		}
	case db.KindCheck:
		field := db.ConstraintField(se.Constraint, "properties")
		if strings.HasPrefix(se.Constraint, "reviews_") {
			field = db.ConstraintField(se.Constraint, "reviews")
		}
		return &Error{Kind: InvalidFieldValue, Message: "Invalid value for field: " + field, Err: se}
	case db.KindForeignKey:
		return &Error{Kind: InvalidOperation, Message: "Operation violates a reference to another record", Err: se}
	}
	return &Error{Kind: Internal, Message: se.Err.Error(), Err: se}
}

// Is reports whether err translates to kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
