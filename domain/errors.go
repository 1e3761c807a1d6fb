package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")

	// ErrCommentOperation is the single kind every comment storage failure reports.
	ErrCommentOperation = errors.New("comment operation failed")
	// ErrNoGeneratedID is returned when the database did not hand back the id of a new comment row.
	ErrNoGeneratedID = errors.New("no identifier was generated for the comment")
)

// StorageError carries the failed operation and the path or comment id it was
// working on. It matches ErrCommentOperation with errors.Is.
type StorageError struct {
	Op     string
	Target string
	Err    error
}

// NewStorageError wraps err as a comment storage failure.
func NewStorageError(op, target string, err error) *StorageError {
	return &StorageError{Op: op, Target: target, Err: err}
}

func (e *StorageError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %s: %v", ErrCommentOperation, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrCommentOperation, e.Op, e.Target, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrCommentOperation
}
