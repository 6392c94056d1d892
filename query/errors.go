package query

import "fmt"

// LoadError indicates the dataset file is missing, unreadable, corrupt or
// does not match the landing event schema. Fatal to the session; never
// retried.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnknownColumnError indicates a filter, grouping key, aggregate or sort
// key referenced a column absent from the schema.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// TypeMismatchError indicates an operation was requested on a column
// whose type does not support it, or a predicate literal does not match
// the column type.
type TypeMismatchError struct {
	Column    string
	Type      string
	Operation string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q (%s) does not support %s", e.Column, e.Type, e.Operation)
}

// EmptyGroupError indicates a mean aggregate was requested over zero
// rows. Surfaced instead of silently producing NaN.
type EmptyGroupError struct {
	Column string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("mean of %q requested over zero rows", e.Column)
}
