package slick

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every *InvalidInputError with errors.Is.
var ErrInvalidInput = errors.New("invalid expression input")

// InvalidInputError reports an expression input that cannot be assembled:
// an empty list, an unsupported element, a value in a projection or a
// placeholder that collides with one supplied by the caller. It is returned
// before anything is sent to the delegate.
type InvalidInputError struct {
	// Field is the path of the request field, e.g.
	// "TransactItems[1].Update.ConditionExpression". Empty when the error
	// did not come from a request assembler.
	Field  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Field == "" {
		return "slick: invalid input: " + msg
	}
	return fmt.Sprintf("slick: invalid input in %s: %s", e.Field, msg)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// atField prefixes the field path of an *InvalidInputError. Other errors are
// returned unchanged.
func atField(err error, field string) error {
	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		return err
	}
	out := *inv
	switch {
	case out.Field == "":
		out.Field = field
	case field != "":
		out.Field = field + "." + out.Field
	}
	return &out
}
