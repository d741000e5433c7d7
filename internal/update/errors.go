package update

import "fmt"

// ConfigError indicates that an operator could not be configured from its
// path expression. It is reported once at configure time and the operator is
// never applied.
type ConfigError struct {
	Path   string
	Reason error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid update path '%v': %v", e.Path, e.Reason)
}

// Unwrap returns the underlying reason.
func (e *ConfigError) Unwrap() error {
	return e.Reason
}

// BindingError indicates that an operator with a positional placeholder was
// applied without a matched field to bind it to. The update of that document
// is aborted.
type BindingError struct {
	Path string
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf(
		"the positional operator did not find the match needed from the query, unexpanded update path '%v'",
		e.Path)
}

// ResolutionError indicates that path resolution hit a structural conflict,
// such as a part attempting to index an array with a non-numeric key. A path
// that simply does not exist is not an error.
type ResolutionError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve update path '%v': %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates that the post-mutation sibling check failed. The
// mutated document is in an invalid state and must not be persisted.
type ValidationError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("update of path '%v' left the document invalid: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}
