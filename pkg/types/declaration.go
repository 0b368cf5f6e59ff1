package types

import (
	"errors"
	"strings"
)

// SymbolKind represents the kind of a declared symbol
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindTrait     SymbolKind = "trait"
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindConstant  SymbolKind = "constant"
)

// NoNamespace is the reserved name of the unqualified top-level scope
const NoNamespace = "no-namespace"

// Modifier flags for classes and methods
type Modifier uint8

const (
	ModifierAbstract Modifier = 1 << iota
	ModifierFinal
	ModifierStatic
	ModifierPublic
	ModifierProtected
	ModifierPrivate
)

// Has reports whether every flag in m2 is set
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// Span locates a declaration in its source file
type Span struct {
	StartLine  int
	EndLine    int
	StartToken int // Index of the first token of the declaration
	EndToken   int // Index of the last token of the declaration
}

// ClassDecl is the structural record of a class, interface or trait declaration
type ClassDecl struct {
	Name       string // Short name
	Namespace  string // Namespace name, "" for the top-level scope
	Kind       SymbolKind
	DocComment string
	Modifiers  Modifier
	Parent     string   // FQN of the parent class
	Interfaces []string // FQNs of directly implemented (or, for interfaces, extended) interfaces
	Traits     []string // FQNs of used traits
	Constants  []ConstantDecl
	Methods    []FunctionDecl
	Span
}

// FunctionDecl is the structural record of a function or method declaration
type FunctionDecl struct {
	Name             string
	Namespace        string
	Class            string // Declaring class FQN for methods
	DocComment       string
	Modifiers        Modifier
	Parameters       []string
	ReturnsReference bool
	Span
}

// ConstantDecl is the structural record of a constant declaration
type ConstantDecl struct {
	Name       string
	Namespace  string
	Class      string // Declaring class FQN for class constants
	Value      string // Raw value expression
	DocComment string
	Span
}

// NamespaceDecl holds the declarations of one namespace segment of a file
type NamespaceDecl struct {
	Name      string // "" for the top-level scope
	Classes   []ClassDecl
	Functions []FunctionDecl
	Constants []ConstantDecl
}

// FileDecl holds everything declared by one source file
type FileDecl struct {
	FileName   string
	Namespaces []NamespaceDecl

	// Errors encountered while scanning declarations
	Errors []ParseError
}

// QualifiedName joins a namespace and a short name into an FQN
func QualifiedName(namespace, name string) string {
	if namespace == "" || namespace == NoNamespace {
		return name
	}
	return namespace + `\` + name
}

// SplitName splits an FQN on its last namespace separator. A leading
// separator is ignored; names without one belong to the top-level scope.
func SplitName(fqn string) (namespace, name string) {
	fqn = strings.TrimLeft(fqn, `\`)
	if i := strings.LastIndex(fqn, `\`); i > 0 {
		return fqn[:i], fqn[i+1:]
	}
	return NoNamespace, fqn
}

// FQN returns the fully qualified class name
func (c *ClassDecl) FQN() string {
	return QualifiedName(c.Namespace, c.Name)
}

// IsInterface returns true for interface declarations
func (c *ClassDecl) IsInterface() bool {
	return c.Kind == KindInterface
}

// IsTrait returns true for trait declarations
func (c *ClassDecl) IsTrait() bool {
	return c.Kind == KindTrait
}

// Validate checks that the class record is structurally usable
func (c *ClassDecl) Validate() error {
	if c.Name == "" {
		return errors.New("class name is required")
	}
	switch c.Kind {
	case KindClass, KindInterface, KindTrait:
	default:
		return errors.New("invalid class kind")
	}
	if c.Kind != KindClass && c.Parent != "" {
		return errors.New("only classes can have a parent class")
	}
	return validateSpan(c.Span)
}

// FQN returns the fully qualified function name
func (f *FunctionDecl) FQN() string {
	return QualifiedName(f.Namespace, f.Name)
}

// Validate checks that the function record is structurally usable
func (f *FunctionDecl) Validate() error {
	if f.Name == "" {
		return errors.New("function name is required")
	}
	return validateSpan(f.Span)
}

// FQN returns the fully qualified constant name; class constants use Class::NAME
func (c *ConstantDecl) FQN() string {
	if c.Class != "" {
		return c.Class + "::" + c.Name
	}
	return QualifiedName(c.Namespace, c.Name)
}

// Validate checks that the constant record is structurally usable
func (c *ConstantDecl) Validate() error {
	if c.Name == "" {
		return errors.New("constant name is required")
	}
	return validateSpan(c.Span)
}

func validateSpan(s Span) error {
	if s.StartLine < 0 || s.EndLine < 0 {
		return errors.New("invalid position: line numbers must not be negative")
	}
	if s.EndLine != 0 && s.StartLine > s.EndLine {
		return errors.New("invalid position: start line must be before or equal to end line")
	}
	return nil
}

// SymbolCount returns the number of top-level declarations in the file
func (f *FileDecl) SymbolCount() int {
	n := 0
	for i := range f.Namespaces {
		ns := &f.Namespaces[i]
		n += len(ns.Classes) + len(ns.Functions) + len(ns.Constants)
	}
	return n
}
