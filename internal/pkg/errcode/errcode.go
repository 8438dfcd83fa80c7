package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrInternal
	ErrEmptyContent
	ErrIndexWrite
	ErrSynthesis
	ErrFilterMismatch
	ErrInvalidFile
	ErrUploadFailed
	ErrAIUnavailable
	ErrTooMany
)
