package vpsearch

import (
	"errors"
	"strings"
)

var (
	// ErrFormat marks malformed input records.
	ErrFormat = errors.New("format error")
	// ErrFilesystem marks path collisions, permission problems and failed writes.
	ErrFilesystem = errors.New("filesystem error")
	// ErrValidation marks invalid arguments (k, residues outside the alphabet).
	ErrValidation = errors.New("validation error")
	// ErrBuild marks an unrecoverable failure while building the tree.
	ErrBuild = errors.New("build error")
	// ErrQuery marks a corrupted or missing index, or a failed query task.
	ErrQuery = errors.New("query error")
)

// Error carries the context of a failed operation.
//
// errors.Is matches both the Kind sentinel and anything in the Err chain.
type Error struct {
	Kind   error  // one of the Err* sentinels
	Op     string // operation, e.g. "load", "persist", "search"
	Path   string // offending path, if any
	Record string // offending record id, if any
	Query  string // offending query id, if any
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		b.WriteString(" path=")
		b.WriteString(e.Path)
	}
	if e.Record != "" {
		b.WriteString(" record=")
		b.WriteString(e.Record)
	}
	if e.Query != "" {
		b.WriteString(" query=")
		b.WriteString(e.Query)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FormatError reports a malformed record in path.
func FormatError(op, path, record string, err error) error {
	return &Error{Kind: ErrFormat, Op: op, Path: path, Record: record, Err: err}
}

// FilesystemError reports a failed filesystem operation on path.
func FilesystemError(op, path string, err error) error {
	return &Error{Kind: ErrFilesystem, Op: op, Path: path, Err: err}
}

// ValidationError reports an invalid argument or sequence.
func ValidationError(op, record string, err error) error {
	return &Error{Kind: ErrValidation, Op: op, Record: record, Err: err}
}

// BuildError reports a tree construction failure.
func BuildError(op string, err error) error {
	return &Error{Kind: ErrBuild, Op: op, Err: err}
}

// QueryError reports a failure on load or in a single query task.
func QueryError(op, path, query string, err error) error {
	return &Error{Kind: ErrQuery, Op: op, Path: path, Query: query, Err: err}
}

// WithQuery returns err tagged with the query id. Errors that already carry
// a query id are returned unchanged.
func WithQuery(err error, query string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Query != "" {
			return err
		}
		c := *e
		c.Query = query
		return &c
	}
	return QueryError("search", "", query, err)
}
