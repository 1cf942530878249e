package services

import "errors"

var (
	// ErrValidation is returned when a required field is missing.
	ErrValidation = errors.New("invalid body")

	// ErrNotFound is returned for an unknown username, user id or session id.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication is returned when a password does not match.
	ErrAuthentication = errors.New("invalid password")
)
