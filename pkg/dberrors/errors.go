package dberrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is the only recoverable failure in the store.
var ErrNotFound = errors.New("greenstore: not found")

// NotFoundError reports which id the named operation failed to find. It
// matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Op string
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("greenstore: couldn't %s a green space with id=%d. Space not found", e.Op, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NotFound(op string, id uint64) error {
	return &NotFoundError{Op: op, ID: id}
}
