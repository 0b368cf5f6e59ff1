package reflection

import (
	"fmt"

	"github.com/dshills/phpreflect/pkg/types"
)

// DummyClass stands in for a class that is referenced but neither declared
// in source nor known to the runtime. It is a well-formed placeholder
// (valid) whose structure is unknown (incomplete).
type DummyClass struct {
	name string
}

// NewDummyClass creates a placeholder for name
func NewDummyClass(name string) *DummyClass {
	return &DummyClass{name: trimName(name)}
}

func (c *DummyClass) Name() string                    { return c.name }
func (c *DummyClass) ShortName() string               { return shortNameOf(c.name) }
func (c *DummyClass) NamespaceName() string           { return namespaceOf(c.name) }
func (c *DummyClass) FileName() string                { return "" }
func (c *DummyClass) StartLine() int                  { return 0 }
func (c *DummyClass) EndLine() int                    { return 0 }
func (c *DummyClass) DocComment() string              { return "" }
func (c *DummyClass) IsInternal() bool                { return false }
func (c *DummyClass) IsUserDefined() bool             { return false }
func (c *DummyClass) IsTokenized() bool               { return false }
func (c *DummyClass) IsValid() bool                   { return true }
func (c *DummyClass) IsComplete() bool                { return false }
func (c *DummyClass) IsInterface() bool               { return false }
func (c *DummyClass) IsTrait() bool                   { return false }
func (c *DummyClass) IsAbstract() bool                { return false }
func (c *DummyClass) IsFinal() bool                   { return false }
func (c *DummyClass) IsInstantiable() bool            { return false }
func (c *DummyClass) ParentClassName() string         { return "" }
func (c *DummyClass) ParentClass() Class              { return nil }
func (c *DummyClass) ParentClasses() []Class          { return nil }
func (c *DummyClass) ParentClassNames() []string      { return nil }
func (c *DummyClass) OwnInterfaceNames() []string     { return nil }
func (c *DummyClass) InterfaceNames() []string        { return nil }
func (c *DummyClass) Interfaces() []Class             { return nil }
func (c *DummyClass) ImplementsInterface(string) bool { return false }
func (c *DummyClass) IsSubclassOf(string) bool        { return false }
func (c *DummyClass) TraitNames() []string            { return nil }
func (c *DummyClass) HasConstant(string) bool         { return false }
func (c *DummyClass) ConstantNames() []string         { return nil }
func (c *DummyClass) HasMethod(string) bool           { return false }
func (c *DummyClass) MethodNames() []string           { return nil }
func (c *DummyClass) Source() (string, error)         { return "", notTokenized(c.name) }
func (c *DummyClass) Reasons() []error                { return nil }

func (c *DummyClass) Constant(name string) (Constant, error) {
	return nil, fmt.Errorf("%w: constant %s::%s of unknown class", types.ErrNotFound, c.name, name)
}

// InvalidClass stands in for a class name with conflicting declarations.
// It is immutable; WithReason returns an extended copy.
type InvalidClass struct {
	name     string
	fileName string
	reasons  []error
}

// NewInvalidClass creates an invalid placeholder. fileName is the file of
// the first declaration.
func NewInvalidClass(name, fileName string, reasons ...error) *InvalidClass {
	return &InvalidClass{name: trimName(name), fileName: fileName, reasons: copyErrors(reasons)}
}

// WithReason returns a copy of c with reason appended
func (c *InvalidClass) WithReason(reason error) *InvalidClass {
	reasons := make([]error, 0, len(c.reasons)+1)
	reasons = append(reasons, c.reasons...)
	return &InvalidClass{name: c.name, fileName: c.fileName, reasons: append(reasons, reason)}
}

func (c *InvalidClass) Name() string                    { return c.name }
func (c *InvalidClass) ShortName() string               { return shortNameOf(c.name) }
func (c *InvalidClass) NamespaceName() string           { return namespaceOf(c.name) }
func (c *InvalidClass) FileName() string                { return c.fileName }
func (c *InvalidClass) StartLine() int                  { return 0 }
func (c *InvalidClass) EndLine() int                    { return 0 }
func (c *InvalidClass) DocComment() string              { return "" }
func (c *InvalidClass) IsInternal() bool                { return false }
func (c *InvalidClass) IsUserDefined() bool             { return true }
func (c *InvalidClass) IsTokenized() bool               { return true }
func (c *InvalidClass) IsValid() bool                   { return false }
func (c *InvalidClass) IsComplete() bool                { return true }
func (c *InvalidClass) IsInterface() bool               { return false }
func (c *InvalidClass) IsTrait() bool                   { return false }
func (c *InvalidClass) IsAbstract() bool                { return false }
func (c *InvalidClass) IsFinal() bool                   { return false }
func (c *InvalidClass) IsInstantiable() bool            { return false }
func (c *InvalidClass) ParentClassName() string         { return "" }
func (c *InvalidClass) ParentClass() Class              { return nil }
func (c *InvalidClass) ParentClasses() []Class          { return nil }
func (c *InvalidClass) ParentClassNames() []string      { return nil }
func (c *InvalidClass) OwnInterfaceNames() []string     { return nil }
func (c *InvalidClass) InterfaceNames() []string        { return nil }
func (c *InvalidClass) Interfaces() []Class             { return nil }
func (c *InvalidClass) ImplementsInterface(string) bool { return false }
func (c *InvalidClass) IsSubclassOf(string) bool        { return false }
func (c *InvalidClass) TraitNames() []string            { return nil }
func (c *InvalidClass) HasConstant(string) bool         { return false }
func (c *InvalidClass) ConstantNames() []string         { return nil }
func (c *InvalidClass) HasMethod(string) bool           { return false }
func (c *InvalidClass) MethodNames() []string           { return nil }
func (c *InvalidClass) Reasons() []error                { return copyErrors(c.reasons) }

func (c *InvalidClass) Constant(name string) (Constant, error) {
	return nil, fmt.Errorf("%w: constant %s::%s of invalid class", types.ErrNotFound, c.name, name)
}

func (c *InvalidClass) Source() (string, error) {
	return "", fmt.Errorf("%w: %s has conflicting declarations", types.ErrUnsupported, c.name)
}

// InvalidFunction stands in for a function name with conflicting declarations
type InvalidFunction struct {
	name     string
	fileName string
	reasons  []error
}

// NewInvalidFunction creates an invalid placeholder
func NewInvalidFunction(name, fileName string, reasons ...error) *InvalidFunction {
	return &InvalidFunction{name: trimName(name), fileName: fileName, reasons: copyErrors(reasons)}
}

// WithReason returns a copy of f with reason appended
func (f *InvalidFunction) WithReason(reason error) *InvalidFunction {
	reasons := make([]error, 0, len(f.reasons)+1)
	reasons = append(reasons, f.reasons...)
	return &InvalidFunction{name: f.name, fileName: f.fileName, reasons: append(reasons, reason)}
}

func (f *InvalidFunction) Name() string           { return f.name }
func (f *InvalidFunction) ShortName() string      { return shortNameOf(f.name) }
func (f *InvalidFunction) NamespaceName() string  { return namespaceOf(f.name) }
func (f *InvalidFunction) FileName() string       { return f.fileName }
func (f *InvalidFunction) StartLine() int         { return 0 }
func (f *InvalidFunction) EndLine() int           { return 0 }
func (f *InvalidFunction) DocComment() string     { return "" }
func (f *InvalidFunction) Parameters() []string   { return nil }
func (f *InvalidFunction) ReturnsReference() bool { return false }
func (f *InvalidFunction) IsInternal() bool       { return false }
func (f *InvalidFunction) IsUserDefined() bool    { return true }
func (f *InvalidFunction) IsTokenized() bool      { return true }
func (f *InvalidFunction) IsValid() bool          { return false }
func (f *InvalidFunction) Reasons() []error       { return copyErrors(f.reasons) }

func (f *InvalidFunction) Source() (string, error) {
	return "", fmt.Errorf("%w: %s has conflicting declarations", types.ErrUnsupported, f.name)
}

// InvalidConstant stands in for a constant name with conflicting declarations
type InvalidConstant struct {
	name     string
	fileName string
	reasons  []error
}

// NewInvalidConstant creates an invalid placeholder
func NewInvalidConstant(name, fileName string, reasons ...error) *InvalidConstant {
	return &InvalidConstant{name: trimName(name), fileName: fileName, reasons: copyErrors(reasons)}
}

// WithReason returns a copy of c with reason appended
func (c *InvalidConstant) WithReason(reason error) *InvalidConstant {
	reasons := make([]error, 0, len(c.reasons)+1)
	reasons = append(reasons, c.reasons...)
	return &InvalidConstant{name: c.name, fileName: c.fileName, reasons: append(reasons, reason)}
}

func (c *InvalidConstant) Name() string               { return c.name }
func (c *InvalidConstant) ShortName() string          { return shortNameOf(c.name) }
func (c *InvalidConstant) NamespaceName() string      { return namespaceOf(c.name) }
func (c *InvalidConstant) DeclaringClassName() string { return "" }
func (c *InvalidConstant) FileName() string           { return c.fileName }
func (c *InvalidConstant) StartLine() int             { return 0 }
func (c *InvalidConstant) EndLine() int               { return 0 }
func (c *InvalidConstant) DocComment() string         { return "" }
func (c *InvalidConstant) ValueDefinition() string    { return "" }
func (c *InvalidConstant) Value() (any, bool)         { return nil, false }
func (c *InvalidConstant) IsInternal() bool           { return false }
func (c *InvalidConstant) IsUserDefined() bool        { return true }
func (c *InvalidConstant) IsTokenized() bool          { return true }
func (c *InvalidConstant) IsValid() bool              { return false }
func (c *InvalidConstant) Reasons() []error           { return copyErrors(c.reasons) }

func (c *InvalidConstant) Source() (string, error) {
	return "", fmt.Errorf("%w: %s has conflicting declarations", types.ErrUnsupported, c.name)
}
