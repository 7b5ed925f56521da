// Package apperr is the error shape every handler failure is normalized into.
package apperr

import "net/http"

type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

func BadRequest(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return New(message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

func Internal(message string) *Error {
	return New(message, http.StatusInternalServerError)
}
