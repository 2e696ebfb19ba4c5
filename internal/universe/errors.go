package universe

import "fmt"

// MalformedInputError reports an input file whose structure or content
// cannot be trusted. Series built from such a file would be silently
// wrong, so loading stops instead of skipping rows.
type MalformedInputError struct {
	File   string
	Row    string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Row != "" {
		return fmt.Sprintf("malformed input in %s (row %s): %s: %v", e.File, e.Row, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed input in %s: %s: %v", e.File, e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
