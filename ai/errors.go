package ai

import "errors"

// ErrMalformedResponse is returned when a model keeps answering with JSON that cannot be parsed.
var ErrMalformedResponse = errors.New("malformed model response")
