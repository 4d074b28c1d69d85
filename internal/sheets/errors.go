package sheets

import (
	"errors"
	"fmt"
)

// Common spreadsheet errors
var (
	// ErrMissingCredentials is returned when no Google service-account
	// credentials are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrSpreadsheetFailed is returned when a read or write fails after
	// exhausting retries.
	ErrSpreadsheetFailed = errors.New("spreadsheet operation failed")

	// ErrVesselColumnMissing is returned when the roster sheet has no vessel
	// name column.
	ErrVesselColumnMissing = errors.New("vessel name column not found in spreadsheet")
)

// SheetError wraps errors with context about the failed spreadsheet operation.
type SheetError struct {
	// Op is the operation that failed (e.g., "RecordMatch").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *SheetError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("sheets: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("sheets: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SheetError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *SheetError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapError wraps an error as a SheetError if it isn't already one.
func WrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var sheetErr *SheetError
	if errors.As(err, &sheetErr) {
		return err
	}

	return &SheetError{Op: op, Err: err, Details: details}
}
