package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes workbook resolution failures.
type ErrorCode string

const (
	// ErrCodeSheetNotResolved means no sheet name carried the expected
	// pending/return markers.
	ErrCodeSheetNotResolved ErrorCode = "SHEET_NOT_RESOLVED"

	// ErrCodeColumnNotResolved means one or more roles stayed unbound
	// after label matching and content inference.
	ErrCodeColumnNotResolved ErrorCode = "COLUMN_NOT_RESOLVED"
)

// ResolveError is a fatal workbook resolution failure. It carries the
// full candidate context (available sheet names or seen labels) so the
// operator can diagnose the export without reopening it.
type ResolveError struct {
	Code ErrorCode

	// Missing lists the unresolved roles (column errors only).
	Missing []Role

	// Available lists sheet names or column labels, depending on Code.
	Available []string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	switch e.Code {
	case ErrCodeSheetNotResolved:
		return fmt.Sprintf("%s: no sheet name matches the pending-return markers (sheets: %s)",
			e.Code, strings.Join(e.Available, ", "))
	case ErrCodeColumnNotResolved:
		missing := make([]string, len(e.Missing))
		for i, r := range e.Missing {
			missing[i] = string(r)
		}
		return fmt.Sprintf("%s: roles unresolved: %s (labels: %s)",
			e.Code, strings.Join(missing, ", "), strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("%s: workbook resolution failed", e.Code)
}

// IsSheetNotResolved reports whether err is a sheet resolution failure.
// Uses errors.As to handle wrapped errors.
func IsSheetNotResolved(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Code == ErrCodeSheetNotResolved
}

// IsColumnNotResolved reports whether err is a column resolution failure.
func IsColumnNotResolved(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Code == ErrCodeColumnNotResolved
}
