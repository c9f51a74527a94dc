// Package imaging classifies raw image bytes by signature and normalizes them to PNG.
package imaging

import "fmt"

// InvalidFormatError indicates bytes that match no supported image signature.
type InvalidFormatError struct {
	Length int
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid image format: unrecognized signature in %d-byte payload", e.Length)
}

// ProcessingError indicates a decode or re-encode failure on bytes whose
// signature was valid. Signature checks are necessary but not sufficient.
type ProcessingError struct {
	Format Format
	Cause  error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image processing failed for %s payload: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("image processing failed for %s payload", e.Format)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}
