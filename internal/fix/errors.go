package fix

import (
	"errors"
	"fmt"
)

var ErrEmptyInput = errors.New("fix: empty input")

// EmptyInputError is returned when the message is empty or whitespace only.
// It is the only error Decode produces.
type EmptyInputError struct {
	Len int
}

func (e *EmptyInputError) Error() string {
	if e.Len == 0 {
		return "fix: message is empty; enter a FIX message to decode"
	}
	return fmt.Sprintf("fix: message is whitespace only (%d bytes); enter a FIX message to decode", e.Len)
}

func (e *EmptyInputError) Unwrap() error {
	return ErrEmptyInput
}
