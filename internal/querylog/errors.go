package querylog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQueryType is returned by Record for a type outside the fixed set.
	// Nothing is written; callers treat it as a warning.
	ErrInvalidQueryType = errors.New("invalid query type")
	// ErrStore marks every failure coming from a Store implementation.
	ErrStore = errors.New("query log store error")
	// ErrUnsupportedField is returned by GroupCountBy for fields a store cannot group on.
	ErrUnsupportedField = errors.New("unsupported group field")
)

// StoreError wraps a failed store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("query log store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// WrapStoreError tags err as a store failure of op. A nil err stays nil.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsWarning reports whether err is a non-fatal rejection rather than a failure.
func IsWarning(err error) bool {
	return errors.Is(err, ErrInvalidQueryType)
}
