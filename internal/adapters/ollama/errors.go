package ollama

import "errors"

// Sentinel kinds for explainer errors. Both degrade to an empty
// explanation upstream.
var (
	ErrUnavailable = errors.New("explanation service unavailable")
	ErrMalformed   = errors.New("malformed explanation response")
)
