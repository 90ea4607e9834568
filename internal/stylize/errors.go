package stylize

import (
	"errors"

	"stylerd/internal/style"
)

// InvalidImageMessage is the client-facing message for undecodable uploads.
const InvalidImageMessage = "Invalid file type/extension. Please provide a valid image (supported formats: JPEG, PNG, TIFF)."

// invalidImageError wraps a decode failure. Its message is fixed so decoder
// internals never leak to clients; the cause stays reachable through Unwrap.
type invalidImageError struct{ err error }

func (e invalidImageError) Error() string { return InvalidImageMessage }
func (e invalidImageError) Unwrap() error { return e.err }

// ErrInvalidImage wraps cause as an invalid-image error.
func ErrInvalidImage(cause error) error { return invalidImageError{err: cause} }

// IsInvalidImage reports whether err means the upload was not a usable image (400).
func IsInvalidImage(err error) bool {
	var e invalidImageError
	return errors.As(err, &e)
}

// IsUnknownModel reports whether err names a model outside the fixed set (400).
func IsUnknownModel(err error) bool { return style.IsUnknown(err) }

// tooBusyError signals that no inference slot freed up in time (429).
type tooBusyError struct{ model string }

func (e tooBusyError) Error() string { return "too busy: " + e.model }

// ErrTooBusy constructs a tooBusyError for model.
func ErrTooBusy(model string) error { return tooBusyError{model: model} }

// IsTooBusy reports whether err indicates backpressure (429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals that the models or runtime are not loaded (503).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
