package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is a unique constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrReference is a foreign key violation: a referenced row does not exist.
	ErrReference = errors.New("referenced entity not found")
)
