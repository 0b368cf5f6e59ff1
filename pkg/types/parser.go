package types

// ParseError represents a non-fatal problem found while scanning declarations
type ParseError struct {
	File    string
	Line    int
	Message string
}

// Error implements the error interface
func (pe *ParseError) Error() string {
	return pe.Message
}

// HasErrors returns true if any scanning errors occurred
func (f *FileDecl) HasErrors() bool {
	return len(f.Errors) > 0
}

// AddError adds a scanning error to the file record
func (f *FileDecl) AddError(line int, msg string) {
	f.Errors = append(f.Errors, ParseError{
		File:    f.FileName,
		Line:    line,
		Message: msg,
	})
}

// Namespace returns the record for the named namespace segment, creating it when absent
func (f *FileDecl) Namespace(name string) *NamespaceDecl {
	for i := range f.Namespaces {
		if f.Namespaces[i].Name == name {
			return &f.Namespaces[i]
		}
	}
	f.Namespaces = append(f.Namespaces, NamespaceDecl{Name: name})
	return &f.Namespaces[len(f.Namespaces)-1]
}
