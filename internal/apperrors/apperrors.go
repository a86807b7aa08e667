package apperrors

import "errors"

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the entity already exists (duplicate email).
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized means the caller presented no or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but does not own the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means the request payload is malformed.
	ErrValidation = errors.New("validation failed")
)
