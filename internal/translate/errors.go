package translate

import (
	"errors"
	"fmt"
)

// Common translation errors
var (
	// ErrTranslationFailed is returned when the translation backend fails
	// after exhausting retries.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrQuotaExceeded is returned when the translation API reports a quota
	// or rate limit failure.
	ErrQuotaExceeded = errors.New("translation API quota exceeded")

	// ErrMissingCredentials is returned when no usable credentials are
	// configured for the selected backend.
	ErrMissingCredentials = errors.New("missing translation credentials")
)

// TranslateError wraps errors with context about the failed translation.
type TranslateError struct {
	// Op is the operation that failed (e.g., "TranslatePages").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *TranslateError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("translate: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("translate: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TranslateError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *TranslateError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapError wraps an error as a TranslateError if it isn't already one.
func WrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var translateErr *TranslateError
	if errors.As(err, &translateErr) {
		return err
	}

	return &TranslateError{Op: op, Err: err, Details: details}
}
