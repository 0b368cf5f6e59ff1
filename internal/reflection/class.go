package reflection

import (
	"fmt"
	"strings"

	"github.com/dshills/phpreflect/pkg/types"
)

// TokenizedClass is a class declared in analyzed source
type TokenizedClass struct {
	decl      types.ClassDecl
	fileName  string
	resolver  Resolver
	constants map[string]Constant
	methods   map[string]Function
}

// NewTokenizedClass wraps a parsed declaration. resolver may be nil, in
// which case every referenced class resolves to a placeholder.
func NewTokenizedClass(decl types.ClassDecl, fileName string, resolver Resolver) *TokenizedClass {
	c := &TokenizedClass{
		decl:      decl,
		fileName:  fileName,
		resolver:  resolver,
		constants: make(map[string]Constant, len(decl.Constants)),
		methods:   make(map[string]Function, len(decl.Methods)),
	}
	for _, cd := range decl.Constants {
		if cd.Class == "" {
			cd.Class = decl.FQN()
		}
		c.constants[cd.Name] = NewTokenizedConstant(cd, fileName, resolver)
	}
	for _, md := range decl.Methods {
		if md.Class == "" {
			md.Class = decl.FQN()
		}
		c.methods[strings.ToLower(md.Name)] = NewTokenizedFunction(md, fileName, resolver)
	}
	return c
}

func (c *TokenizedClass) Name() string          { return c.decl.FQN() }
func (c *TokenizedClass) ShortName() string     { return c.decl.Name }
func (c *TokenizedClass) NamespaceName() string { return namespaceOf(c.decl.FQN()) }
func (c *TokenizedClass) FileName() string      { return c.fileName }
func (c *TokenizedClass) StartLine() int        { return c.decl.StartLine }
func (c *TokenizedClass) EndLine() int          { return c.decl.EndLine }
func (c *TokenizedClass) DocComment() string    { return c.decl.DocComment }

// Declaration returns the parsed record the class was built from
func (c *TokenizedClass) Declaration() types.ClassDecl {
	return c.decl
}

func (c *TokenizedClass) IsInternal() bool    { return false }
func (c *TokenizedClass) IsUserDefined() bool { return true }
func (c *TokenizedClass) IsTokenized() bool   { return true }
func (c *TokenizedClass) IsValid() bool       { return true }
func (c *TokenizedClass) IsComplete() bool    { return isComplete(c) }
func (c *TokenizedClass) IsInterface() bool   { return c.decl.IsInterface() }
func (c *TokenizedClass) IsTrait() bool       { return c.decl.IsTrait() }
func (c *TokenizedClass) IsFinal() bool       { return c.decl.Modifiers.Has(types.ModifierFinal) }

func (c *TokenizedClass) IsAbstract() bool {
	return c.decl.Modifiers.Has(types.ModifierAbstract) || c.decl.IsInterface()
}

func (c *TokenizedClass) IsInstantiable() bool {
	return c.decl.Kind == types.KindClass && !c.IsAbstract()
}

func (c *TokenizedClass) ParentClassName() string { return trimName(c.decl.Parent) }

func (c *TokenizedClass) ParentClass() Class {
	if c.decl.Parent == "" {
		return nil
	}
	return resolve(c.resolver, c.decl.Parent)
}

func (c *TokenizedClass) ParentClasses() []Class            { return parentChain(c, c.resolver) }
func (c *TokenizedClass) ParentClassNames() []string        { return classNames(c.ParentClasses()) }
func (c *TokenizedClass) OwnInterfaceNames() []string       { return copyStrings(c.decl.Interfaces) }
func (c *TokenizedClass) InterfaceNames() []string          { return interfaceNames(c, c.resolver) }
func (c *TokenizedClass) Interfaces() []Class               { return resolveAll(c.resolver, c.InterfaceNames()) }
func (c *TokenizedClass) ImplementsInterface(n string) bool { return implementsInterface(c, n) }
func (c *TokenizedClass) IsSubclassOf(n string) bool        { return isSubclassOf(c, n) }
func (c *TokenizedClass) TraitNames() []string              { return copyStrings(c.decl.Traits) }

func (c *TokenizedClass) HasConstant(name string) bool {
	_, ok := findConstant(c, name)
	return ok
}

func (c *TokenizedClass) Constant(name string) (Constant, error) {
	if constant, ok := findConstant(c, name); ok {
		return constant, nil
	}
	return nil, fmt.Errorf("%w: constant %s::%s", types.ErrNotFound, c.Name(), name)
}

func (c *TokenizedClass) ConstantNames() []string    { return constantNames(c) }
func (c *TokenizedClass) HasMethod(name string) bool { return hasMethod(c, name) }
func (c *TokenizedClass) MethodNames() []string      { return methodNames(c) }

// Method returns a method declared by the class itself
func (c *TokenizedClass) Method(name string) (Function, error) {
	if method, ok := c.methods[strings.ToLower(name)]; ok {
		return method, nil
	}
	return nil, fmt.Errorf("%w: method %s::%s", types.ErrNotFound, c.Name(), name)
}

// Source returns the declaration text, re-reading the file tokens through
// the resolver when they are not retained
func (c *TokenizedClass) Source() (string, error) {
	return tokenSource(c.resolver, c.fileName, c.decl.Span)
}

func (c *TokenizedClass) Reasons() []error { return nil }

func (c *TokenizedClass) ownConstant(name string) (Constant, bool) {
	constant, ok := c.constants[name]
	return constant, ok
}

func (c *TokenizedClass) ownConstantNames() []string {
	out := make([]string, 0, len(c.decl.Constants))
	for _, cd := range c.decl.Constants {
		out = append(out, cd.Name)
	}
	return out
}

func (c *TokenizedClass) ownMethodNames() []string {
	out := make([]string, 0, len(c.decl.Methods))
	for _, md := range c.decl.Methods {
		out = append(out, md.Name)
	}
	return out
}

func tokenSource(r Resolver, fileName string, span types.Span) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: no token source for %s", types.ErrMissingDependency, fileName)
	}
	ts, err := r.FileTokens(fileName)
	if err != nil {
		return "", err
	}
	if span.EndToken < span.StartToken || span.EndToken >= ts.Len() {
		return "", fmt.Errorf("%w: token range %d-%d in %s", types.ErrOutOfBounds, span.StartToken, span.EndToken, fileName)
	}
	return ts.SourcePart(span.StartToken, span.EndToken), nil
}
