package types

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrUpstreamDenied     = errors.New("upstream request denied")
	ErrUpstreamTransport  = errors.New("upstream request failed")
	ErrValidation         = errors.New("invalid response format")
	ErrDetailsUnavailable = errors.New("place details unavailable")
	ErrBadRequest         = errors.New("bad request")
)

// UpstreamError carries what a provider said alongside the domain error it maps to.
type UpstreamError struct {
	Provider string
	Status   string
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Provider, e.Status, e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ProviderMessage returns the provider's own message when err carries one.
func ProviderMessage(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}
