package bili

import (
	"errors"
	"fmt"
)

// ErrUnexpectedResponse marks a success envelope whose payload breaks an invariant: missing
// data, an empty page list, or a play URL list that doesn't hold exactly one entry.
var ErrUnexpectedResponse = errors.New("bili: unexpected response")

// APIError is an application-level failure reported in the response envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bili api error, code: %d, msg: %s", e.Code, e.Message)
}
