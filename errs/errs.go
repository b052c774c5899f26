package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput indicates that no resource ID could be found in the page URL.
	ErrMalformedInput = errors.New("malformed input")
	// ErrTransport indicates a network or HTTP failure reaching a remote endpoint.
	ErrTransport = errors.New("transport error")
	// ErrEmptyPayload indicates that the metadata envelope lacks the html field.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrNoVariantsFound indicates that the markup fragment contained no usable source tags.
	ErrNoVariantsFound = errors.New("no variants found")
	// ErrVariantNotFound indicates that the selection criterion matched no variant.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrTransfer indicates an I/O or stream fault while writing the media file.
	ErrTransfer = errors.New("transfer error")
)

// VariantNotFoundError is returned by the selector when the requested
// criterion cannot be satisfied. It unwraps to ErrVariantNotFound.
type VariantNotFoundError struct {
	Requested string
	Available []string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("requested format %q not found. Available: %s", e.Requested, strings.Join(e.Available, ", "))
}

func (e *VariantNotFoundError) Unwrap() error { return ErrVariantNotFound }

// Kind returns the taxonomy name of err, or "Unknown" when err does not wrap
// one of the sentinels above.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedInput):
		return "MalformedInput"
	case errors.Is(err, ErrTransport):
		return "TransportError"
	case errors.Is(err, ErrEmptyPayload):
		return "EmptyPayload"
	case errors.Is(err, ErrNoVariantsFound):
		return "NoVariantsFound"
	case errors.Is(err, ErrVariantNotFound):
		return "VariantNotFound"
	case errors.Is(err, ErrTransfer):
		return "TransferError"
	}
	return "Unknown"
}
