package pipeline

import (
	"errors"
	"fmt"
)

// SafeMessage is the only detail of an InternalError shown to clients.
const SafeMessage = "internal error"

// InternalError wraps an unexpected failure inside evaluation. Its detail is
// for server logs; callers outside the process only see SafeMessage.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsInternal reports whether err is, or wraps, an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
