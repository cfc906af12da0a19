package core

import "fmt"

// ScanError reports that a single source scanner failed. Discovery degrades
// to fewer candidates; a ScanError is surfaced as a warning, never as a
// discovery failure.
type ScanError struct {
	Source Source
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s source: %v", e.Source, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// RegistryUnavailableError is a ScanError subtype for the registry source:
// the catalog command is missing, timed out, or produced unusable output.
type RegistryUnavailableError struct {
	Command string
	Err     error
}

func (e *RegistryUnavailableError) Error() string {
	return fmt.Sprintf("registry unavailable (%s): %v", e.Command, e.Err)
}

func (e *RegistryUnavailableError) Unwrap() error { return e.Err }
