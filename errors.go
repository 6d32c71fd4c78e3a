package swagcall

import "errors"

var (
	// ErrUnknownOperation reports a call against an operation name the
	// document never declared.
	ErrUnknownOperation = errors.New("swagcall: unknown operation")

	// ErrDuplicateOperation reports two operation identifiers that sanitize
	// to the same callable name. Generation fails fast instead of silently
	// overwriting one with the other.
	ErrDuplicateOperation = errors.New("swagcall: duplicate operation name")
)
