package gateway

import (
	"errors"
	"fmt"
)

// RejectedError is a non-2xx response that carried a structured
// {"error": "..."} body. Message is meant for the learner as-is.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (HTTP %d): %s", e.Status, e.Message)
}

// UnavailableError covers transport failures and non-2xx responses
// without a usable error body. Status is 0 when no response arrived.
type UnavailableError struct {
	Status int
	Err    error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("backend unavailable (HTTP %d): %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("backend unavailable (HTTP %d)", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("backend unavailable: %v", e.Err)
	}
	return "backend unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Notice returns the text to show the learner for err: the server's own
// message for a rejection, otherwise fallback.
func Notice(err error, fallback string) string {
	var rej *RejectedError
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	return fallback
}

// StatusOf returns the HTTP status carried by err, 0 if none.
func StatusOf(err error) int {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Status
	}
	var unavail *UnavailableError
	if errors.As(err, &unavail) {
		return unavail.Status
	}
	return 0
}
