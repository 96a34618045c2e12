package scheduling

import "errors"

// Kind classifies a booking failure. Every precondition violation maps to
// exactly one kind; callers decide transport codes and retry policy from it.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindLeadTime
	KindCapacity
	KindTerminalState
	KindValidation
	KindUnavailable // store or directory unreachable; the only retryable kind
)

// Error is a tagged booking error. Msg is safe to show to the caller;
// Err carries the underlying cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the booking error kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
