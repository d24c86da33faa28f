package httperr

import (
	"errors"
	"net/http"
)

type BadRequestError struct {
	msg string
	err error
}

func (e *BadRequestError) Error() string { return e.msg }

func (e *BadRequestError) Unwrap() error { return e.err }

func NewBadRequest(msg string) error { return &BadRequestError{msg: msg} }

// WrapBadRequest keeps err reachable through errors.Is.
func WrapBadRequest(err error) error {
	if err == nil {
		return nil
	}
	return &BadRequestError{msg: err.Error(), err: err}
}

func IsBadRequest(err error) bool {
	_, ok := errors.AsType[*BadRequestError](err)
	return ok
}

type NotFoundError struct {
	msg string
	err error
}

func (e *NotFoundError) Error() string { return e.msg }

func (e *NotFoundError) Unwrap() error { return e.err }

func NewNotFound(msg string) error { return &NotFoundError{msg: msg} }

func WrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	return &NotFoundError{msg: err.Error(), err: err}
}

func IsNotFound(err error) bool {
	_, ok := errors.AsType[*NotFoundError](err)
	return ok
}

// Status maps an error to the HTTP status and envelope code the API writes.
func Status(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case IsBadRequest(err):
		return http.StatusBadRequest, "bad_request"
	case IsNotFound(err):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
