package storage

import "errors"

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrInvalidAddress = errors.New("storage: invalid address")
	ErrMismatch       = errors.New("storage: stored bytes do not match address")
	ErrImmutable      = errors.New("storage: immutable content mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
