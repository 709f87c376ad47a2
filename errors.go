package private

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingReference is returned when an operation needs a reference and got nil.
	ErrMissingReference = errors.New("a reference object must be supplied")
	// ErrMissingKey is returned by Set when the key is empty.
	ErrMissingKey = errors.New("a key must be supplied")
	// ErrMissingMethodName is returned by Invoke when the method name is empty.
	ErrMissingMethodName = errors.New("a method name must be supplied")
	// ErrNotCallable is returned by Invoke when the stored value is not a Method.
	ErrNotCallable = errors.New("stored value is not callable")
)

// OpError records the Store operation that failed alongside the cause.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("private: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *OpError
	if errors.As(err, &existing) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
