package protocol

import "errors"

// State is where a parse attempt stands for the bytes seen so far.
type State uint8

const (
	// Partial means the buffer is a valid prefix, read more and retry
	Partial State = iota
	// Complete means a whole request was parsed
	Complete
	// Error means no dialect can ever accept these bytes
	Error
)

func (s State) String() string {
	switch s {
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	case Error:
		return "error"
	}
	return "unknown"
}

// Outcome is the tri-state parse result. Value is set only on Complete,
// Cause only on Error and is diagnostic.
type Outcome[T any] struct {
	State State
	Value T
	Cause error
}

// fold sub-step sentinel errors into an outcome
func outcomeOf[T any](v T, err error) Outcome[T] {
	switch {
	case err == nil:
		return Outcome[T]{State: Complete, Value: v}
	case errors.Is(err, errIncomplete):
		return Outcome[T]{State: Partial}
	default:
		return Outcome[T]{State: Error, Cause: err}
	}
}
