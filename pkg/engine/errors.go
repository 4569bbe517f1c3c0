package engine

import "fmt"

// FormatError rejects a whole document: it matches neither schema, or a
// recognized top-level key holds the wrong kind of value.
type FormatError struct {
	Format SourceFormat
	Reason string
}

func (e *FormatError) Error() string {
	if e.Format == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

// FieldError describes one malformed element that was skipped.
type FieldError struct {
	Format SourceFormat
	Path   string // e.g. Results[0].Vulnerabilities[3]
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %s: %s", e.Format, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s %s: field %q %s", e.Format, e.Path, e.Field, e.Reason)
}

func errUnrecognizedFormat() *FormatError {
	return &FormatError{Reason: "unrecognized scan format"}
}
