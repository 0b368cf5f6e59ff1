package reflection

import (
	"github.com/dshills/phpreflect/internal/stream"
)

// Resolver is the non-owning back-reference from symbols to the registry
// that holds them
type Resolver interface {
	// GetClass never fails; unknown names yield a placeholder
	GetClass(name string) Class
	FileTokens(path string) (*stream.TokenStream, error)
}

// Class is the capability set shared by every class variant: tokenized,
// builtin, dummy and invalid
type Class interface {
	Name() string
	ShortName() string
	NamespaceName() string
	FileName() string
	StartLine() int
	EndLine() int
	DocComment() string

	IsInternal() bool
	IsUserDefined() bool
	IsTokenized() bool
	IsValid() bool
	IsComplete() bool
	IsInterface() bool
	IsTrait() bool
	IsAbstract() bool
	IsFinal() bool
	IsInstantiable() bool

	ParentClassName() string
	// ParentClass returns nil when the class has no parent
	ParentClass() Class
	// ParentClasses walks the ancestor chain, nearest first, stopping at cycles
	ParentClasses() []Class
	ParentClassNames() []string
	OwnInterfaceNames() []string
	// InterfaceNames includes interfaces inherited from ancestors and parent interfaces
	InterfaceNames() []string
	Interfaces() []Class
	ImplementsInterface(name string) bool
	IsSubclassOf(name string) bool
	TraitNames() []string

	HasConstant(name string) bool
	Constant(name string) (Constant, error)
	ConstantNames() []string
	HasMethod(name string) bool
	MethodNames() []string

	Source() (string, error)
	Reasons() []error
}

// Partition names the class list c belongs to: "tokenized", "internal"
// or "nonexistent"
func Partition(c Class) string {
	switch {
	case c.IsTokenized():
		return "tokenized"
	case c.IsInternal():
		return "internal"
	default:
		return "nonexistent"
	}
}

// Function is the capability set of functions and methods
type Function interface {
	Name() string
	ShortName() string
	NamespaceName() string
	FileName() string
	StartLine() int
	EndLine() int
	DocComment() string
	Parameters() []string
	ReturnsReference() bool

	IsInternal() bool
	IsUserDefined() bool
	IsTokenized() bool
	IsValid() bool

	Source() (string, error)
	Reasons() []error
}

// Constant is the capability set of namespace and class constants
type Constant interface {
	// Name is the FQN for namespace constants and the bare name for class constants
	Name() string
	ShortName() string
	NamespaceName() string
	DeclaringClassName() string
	FileName() string
	StartLine() int
	EndLine() int
	DocComment() string
	ValueDefinition() string
	// Value folds a literal definition; ok is false for non-literal expressions
	Value() (any, bool)

	IsInternal() bool
	IsUserDefined() bool
	IsTokenized() bool
	IsValid() bool

	Source() (string, error)
	Reasons() []error
}

// members is implemented by every class variant in this package. It exposes
// the members declared by the class itself, without inheritance.
type members interface {
	ownConstant(name string) (Constant, bool)
	ownConstantNames() []string
	ownMethodNames() []string
}
