package filters

import (
	"errors"
	"fmt"
)

// Standard errors that can be used with errors.Is()
var (
	// ErrNotImplemented indicates a filter that does not provide Run
	ErrNotImplemented = errors.New("filter not implemented")

	// ErrFilterNotFound indicates an identifier with no registered filter
	ErrFilterNotFound = errors.New("filter not found")

	// ErrMissingAssign indicates a filter was built without an assign it needs
	ErrMissingAssign = errors.New("missing assign")

	// ErrInvalidParam indicates a param value the filter cannot use
	ErrInvalidParam = errors.New("invalid param")
)

// FilterError wraps a failed filter run with the filter identifier and the
// diagnostic label of what was being filtered.
type FilterError struct {
	// Filter is the identifier the filter was resolved from
	Filter string

	// Label describes the content, as returned by Base.Filename
	Label string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s: %s: %v", e.Filter, e.Label, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *FilterError) Unwrap() error {
	return e.Err
}

// Is matches the wrapped error, or another FilterError on the fields it sets.
func (e *FilterError) Is(target error) bool {
	if errors.Is(e.Err, target) {
		return true
	}

	t, ok := target.(*FilterError)
	if !ok {
		return false
	}

	if t.Filter != "" && t.Filter != e.Filter {
		return false
	}
	if t.Label != "" && t.Label != e.Label {
		return false
	}
	if t.Filter != "" || t.Label != "" {
		return true
	}

	return errors.Is(e.Err, t.Err)
}

// Wrap attaches filter context to err. A nil err stays nil.
func Wrap(err error, filter, label string) error {
	if err == nil {
		return nil
	}
	return &FilterError{
		Filter: filter,
		Label:  label,
		Err:    err,
	}
}
