package store

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownStudent is returned when a complaint names a student number
	// that is not on the roster.
	ErrUnknownStudent = errors.New("student number not on roster")
	// ErrDuplicateStudent is returned when a student number is already taken.
	ErrDuplicateStudent = errors.New("student number already exists")
)
