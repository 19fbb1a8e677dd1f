package inference

import (
	"errors"
	"fmt"
)

var ErrConnection = errors.New("processing server unreachable")

// ServerError is any answer without success:true. Message may be empty.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("processing failed (status %d)", e.StatusCode)
	}
	return e.Message
}
