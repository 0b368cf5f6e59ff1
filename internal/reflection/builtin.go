package reflection

import (
	"fmt"

	"github.com/dshills/phpreflect/internal/builtin"
	"github.com/dshills/phpreflect/pkg/types"
)

func notTokenized(name string) error {
	return fmt.Errorf("%w: %s has no tokenized source", types.ErrUnsupported, name)
}

// BuiltinClass wraps a class known to the runtime but absent from source
type BuiltinClass struct {
	info     *builtin.ClassInfo
	resolver Resolver
}

// NewBuiltinClass wraps a catalog entry
func NewBuiltinClass(info *builtin.ClassInfo, resolver Resolver) *BuiltinClass {
	return &BuiltinClass{info: info, resolver: resolver}
}

func (c *BuiltinClass) Name() string          { return c.info.Name }
func (c *BuiltinClass) ShortName() string     { return shortNameOf(c.info.Name) }
func (c *BuiltinClass) NamespaceName() string { return namespaceOf(c.info.Name) }
func (c *BuiltinClass) FileName() string      { return "" }
func (c *BuiltinClass) StartLine() int        { return 0 }
func (c *BuiltinClass) EndLine() int          { return 0 }
func (c *BuiltinClass) DocComment() string    { return "" }

// Extension returns the runtime extension declaring the class
func (c *BuiltinClass) Extension() string { return c.info.Extension }

func (c *BuiltinClass) IsInternal() bool    { return !c.info.UserDefined }
func (c *BuiltinClass) IsUserDefined() bool { return c.info.UserDefined }
func (c *BuiltinClass) IsTokenized() bool   { return false }
func (c *BuiltinClass) IsValid() bool       { return true }
func (c *BuiltinClass) IsComplete() bool    { return true }
func (c *BuiltinClass) IsInterface() bool   { return c.info.IsInterface() }
func (c *BuiltinClass) IsTrait() bool       { return c.info.IsTrait() }
func (c *BuiltinClass) IsAbstract() bool    { return c.info.Abstract || c.info.IsInterface() }
func (c *BuiltinClass) IsFinal() bool       { return c.info.Final }

func (c *BuiltinClass) IsInstantiable() bool {
	return !c.info.IsInterface() && !c.info.IsTrait() && !c.info.Abstract
}

func (c *BuiltinClass) ParentClassName() string { return c.info.Parent }

func (c *BuiltinClass) ParentClass() Class {
	if c.info.Parent == "" {
		return nil
	}
	return resolve(c.resolver, c.info.Parent)
}

func (c *BuiltinClass) ParentClasses() []Class            { return parentChain(c, c.resolver) }
func (c *BuiltinClass) ParentClassNames() []string        { return classNames(c.ParentClasses()) }
func (c *BuiltinClass) OwnInterfaceNames() []string       { return copyStrings(c.info.Interfaces) }
func (c *BuiltinClass) InterfaceNames() []string          { return interfaceNames(c, c.resolver) }
func (c *BuiltinClass) Interfaces() []Class               { return resolveAll(c.resolver, c.InterfaceNames()) }
func (c *BuiltinClass) ImplementsInterface(n string) bool { return implementsInterface(c, n) }
func (c *BuiltinClass) IsSubclassOf(n string) bool        { return isSubclassOf(c, n) }
func (c *BuiltinClass) TraitNames() []string              { return nil }

func (c *BuiltinClass) HasConstant(name string) bool {
	_, ok := findConstant(c, name)
	return ok
}

func (c *BuiltinClass) Constant(name string) (Constant, error) {
	if constant, ok := findConstant(c, name); ok {
		return constant, nil
	}
	return nil, fmt.Errorf("%w: constant %s::%s", types.ErrNotFound, c.Name(), name)
}

func (c *BuiltinClass) ConstantNames() []string    { return constantNames(c) }
func (c *BuiltinClass) HasMethod(name string) bool { return hasMethod(c, name) }
func (c *BuiltinClass) MethodNames() []string      { return methodNames(c) }
func (c *BuiltinClass) Source() (string, error)    { return "", notTokenized(c.Name()) }
func (c *BuiltinClass) Reasons() []error           { return nil }
func (c *BuiltinClass) ownMethodNames() []string   { return copyStrings(c.info.Methods) }

func (c *BuiltinClass) ownConstant(name string) (Constant, bool) {
	for i := range c.info.Constants {
		if c.info.Constants[i].Name == name {
			return NewBuiltinConstant(&c.info.Constants[i], c.info.Name), true
		}
	}
	return nil, false
}

func (c *BuiltinClass) ownConstantNames() []string {
	out := make([]string, 0, len(c.info.Constants))
	for _, constant := range c.info.Constants {
		out = append(out, constant.Name)
	}
	return out
}

// BuiltinFunction wraps a function known to the runtime
type BuiltinFunction struct {
	info *builtin.FunctionInfo
}

// NewBuiltinFunction wraps a catalog entry
func NewBuiltinFunction(info *builtin.FunctionInfo) *BuiltinFunction {
	return &BuiltinFunction{info: info}
}

func (f *BuiltinFunction) Name() string            { return f.info.Name }
func (f *BuiltinFunction) ShortName() string       { return shortNameOf(f.info.Name) }
func (f *BuiltinFunction) NamespaceName() string   { return namespaceOf(f.info.Name) }
func (f *BuiltinFunction) FileName() string        { return "" }
func (f *BuiltinFunction) StartLine() int          { return 0 }
func (f *BuiltinFunction) EndLine() int            { return 0 }
func (f *BuiltinFunction) DocComment() string      { return "" }
func (f *BuiltinFunction) Parameters() []string    { return copyStrings(f.info.Parameters) }
func (f *BuiltinFunction) ReturnsReference() bool  { return f.info.ReturnsReference }
func (f *BuiltinFunction) Extension() string       { return f.info.Extension }
func (f *BuiltinFunction) IsInternal() bool        { return !f.info.UserDefined }
func (f *BuiltinFunction) IsUserDefined() bool     { return f.info.UserDefined }
func (f *BuiltinFunction) IsTokenized() bool       { return false }
func (f *BuiltinFunction) IsValid() bool           { return true }
func (f *BuiltinFunction) Source() (string, error) { return "", notTokenized(f.Name()) }
func (f *BuiltinFunction) Reasons() []error        { return nil }

// BuiltinConstant wraps a constant known to the runtime, either global or
// declared by a builtin class
type BuiltinConstant struct {
	info      *builtin.ConstantInfo
	className string
}

// NewBuiltinConstant wraps a catalog entry; className is "" for global constants
func NewBuiltinConstant(info *builtin.ConstantInfo, className string) *BuiltinConstant {
	return &BuiltinConstant{info: info, className: className}
}

func (c *BuiltinConstant) Name() string {
	if c.className != "" {
		return c.info.Name
	}
	return trimName(c.info.Name)
}

func (c *BuiltinConstant) ShortName() string          { return shortNameOf(c.info.Name) }
func (c *BuiltinConstant) NamespaceName() string      { return namespaceOf(c.info.Name) }
func (c *BuiltinConstant) DeclaringClassName() string { return c.className }
func (c *BuiltinConstant) FileName() string           { return "" }
func (c *BuiltinConstant) StartLine() int             { return 0 }
func (c *BuiltinConstant) EndLine() int               { return 0 }
func (c *BuiltinConstant) DocComment() string         { return "" }
func (c *BuiltinConstant) ValueDefinition() string    { return c.info.Value }
func (c *BuiltinConstant) Value() (any, bool)         { return FoldLiteral(c.info.Value) }
func (c *BuiltinConstant) IsInternal() bool           { return true }
func (c *BuiltinConstant) IsUserDefined() bool        { return false }
func (c *BuiltinConstant) IsTokenized() bool          { return false }
func (c *BuiltinConstant) IsValid() bool              { return true }
func (c *BuiltinConstant) Source() (string, error)    { return "", notTokenized(c.Name()) }
func (c *BuiltinConstant) Reasons() []error           { return nil }
