// Package apperr defines the error kinds the pipeline reports. Kinds are
// coarse failure categories, not exhaustive error types; callers detect
// them with errors.As through arbitrary fmt.Errorf wrapping.
package apperr

import "errors"

// Kind is a coarse failure category carried by Error.
type Kind string

const (
	ProviderUnavailable   Kind = "provider_unavailable"
	NormalizationEmpty    Kind = "normalization_empty"
	DuplicateKey          Kind = "duplicate_key"
	ImageResolutionFailed Kind = "image_resolution_failed"
	SynthesisFailed       Kind = "synthesis_failed"
	StoreError            Kind = "store_error"
	ConfigurationError    Kind = "configuration_error"
)

// Error is a kinded error that survives wrapping.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a kinded error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap builds a kinded error around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind from an error chain; empty when none is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
