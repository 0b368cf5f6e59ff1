package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by the stream, registry and reflection layers
var (
	// ErrNotFound is returned when a namespace, symbol or file is requested but absent
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed query input
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupported is returned on attempts to mutate an immutable structure
	ErrUnsupported = errors.New("unsupported operation")
	// ErrMissingDependency is returned when no tokenizer is available
	ErrMissingDependency = errors.New("missing dependency")
	// ErrSerialization is returned when a persisted token stream cannot be restored
	ErrSerialization = errors.New("serialization error")
	// ErrOutOfBounds is returned when a stream position is outside the token range
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrNotReadable is returned when a source file exists but cannot be read
	ErrNotReadable = errors.New("not readable")
	// ErrAlreadyExists is returned when a symbol is declared more than once
	ErrAlreadyExists = errors.New("already exists")
	// ErrFileProcessing is matched by every FileProcessingError
	ErrFileProcessing = errors.New("file processing failed")
)

// DuplicateError describes one conflicting redeclaration of a symbol
type DuplicateError struct {
	Kind             SymbolKind
	Name             string
	FileName         string
	PreviousFileName string
}

func (e *DuplicateError) Error() string {
	if e.PreviousFileName == "" {
		return fmt.Sprintf("%s %s was redeclared in file %s", e.Kind, e.Name, e.FileName)
	}
	return fmt.Sprintf("%s %s was redeclared in file %s (previously declared in file %s)",
		e.Kind, e.Name, e.FileName, e.PreviousFileName)
}

// Is reports whether target is ErrAlreadyExists
func (e *DuplicateError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// FileProcessingError bundles every conflict found while merging one file.
// Registration of the non-conflicting symbols has already happened when it is returned.
type FileProcessingError struct {
	FileName string
	Reasons  []error
}

func (e *FileProcessingError) Error() string {
	var b strings.Builder
	if e.FileName != "" {
		fmt.Fprintf(&b, "there were %d error(s) processing file %s", len(e.Reasons), e.FileName)
	} else {
		fmt.Fprintf(&b, "there were %d error(s) processing declarations", len(e.Reasons))
	}
	for _, reason := range e.Reasons {
		b.WriteString("; ")
		b.WriteString(reason.Error())
	}
	return b.String()
}

// Unwrap exposes the individual reasons to errors.Is / errors.As
func (e *FileProcessingError) Unwrap() []error {
	return e.Reasons
}

// Is reports whether target is ErrFileProcessing
func (e *FileProcessingError) Is(target error) bool {
	return target == ErrFileProcessing
}
