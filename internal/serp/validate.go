package serp

import "errors"

// MinQueryLength is the shortest autocomplete query forwarded to the provider,
// counted in bytes.
const MinQueryLength = 4

// ErrMalformedResponse marks a 2xx provider body that lacks a field the
// transform needs.
var ErrMalformedResponse = errors.New("malformed upstream response")

// ValidationError is a client mistake detected before any provider call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidateAutoComplete checks an autocomplete request. Hotels and region
// requests are forwarded without checks.
func ValidateAutoComplete(req AutoCompleteRequest) error {
	if len(req.Query) < MinQueryLength {
		return &ValidationError{Reason: "Query should be at least 4 letters"}
	}
	return nil
}
