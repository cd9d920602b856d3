package protocol

import "errors"

// errors for parsing, sub-steps wrap these with a short cause
var (
	errInvalid    = errors.New("invalid request")
	errIncomplete = errors.New("incomplete request")
)

// errors for building responses
var (
	ErrInvalidHeader  = errors.New("protocol: invalid response header")
	ErrUnknownStatus  = errors.New("protocol: unknown status")
	ErrUnknownVersion = errors.New("protocol: unknown version")
)
