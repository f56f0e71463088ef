package cachefn

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by every wrapped call made before the
	// store handle has been filled by Init, InitURL or InitConfig.
	ErrNotInitialized = errors.New("cachefn: store not initialized")
	// ErrAlreadyInitialized is returned when a handle is filled twice.
	ErrAlreadyInitialized = errors.New("cachefn: store already initialized")
	// ErrStoreUnavailable matches every *StoreError.
	ErrStoreUnavailable = errors.New("cachefn: store unavailable")
	// ErrInvalidOptions reports a wrapper or facade built with bad arguments.
	ErrInvalidOptions = errors.New("cachefn: invalid options")
)

// StoreError wraps a failed store command.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cachefn: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

func storeErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Err: err}
}

// TransformError carries a failure of a caller-supplied Load or Dump.
// Err is the caller's error, untouched.
type TransformError struct {
	Op  string // "load" or "dump"
	Key string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("cachefn: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// KeyError reports an argument the default key builder cannot represent.
type KeyError struct {
	Func   string
	Path   string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("cachefn: cannot derive key for %s: %s %s", e.Func, e.Path, e.Reason)
}
