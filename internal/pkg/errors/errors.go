package errors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal")
	ErrEmptyContent   = errors.New("empty content")
	ErrIndexWrite     = errors.New("index write failed")
	ErrSynthesis      = errors.New("synthesis failed")
	ErrFilterMismatch = errors.New("document filter outside fund")
	ErrInvalidFile    = errors.New("invalid file")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
