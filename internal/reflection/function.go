package reflection

import "github.com/dshills/phpreflect/pkg/types"

// TokenizedFunction is a function or method declared in analyzed source
type TokenizedFunction struct {
	decl     types.FunctionDecl
	fileName string
	resolver Resolver
}

// NewTokenizedFunction wraps a parsed declaration
func NewTokenizedFunction(decl types.FunctionDecl, fileName string, resolver Resolver) *TokenizedFunction {
	return &TokenizedFunction{decl: decl, fileName: fileName, resolver: resolver}
}

// Name returns the FQN; methods use their bare name
func (f *TokenizedFunction) Name() string {
	if f.decl.Class != "" {
		return f.decl.Name
	}
	return f.decl.FQN()
}

func (f *TokenizedFunction) ShortName() string      { return f.decl.Name }
func (f *TokenizedFunction) NamespaceName() string  { return namespaceOf(f.decl.FQN()) }
func (f *TokenizedFunction) FileName() string       { return f.fileName }
func (f *TokenizedFunction) StartLine() int         { return f.decl.StartLine }
func (f *TokenizedFunction) EndLine() int           { return f.decl.EndLine }
func (f *TokenizedFunction) DocComment() string     { return f.decl.DocComment }
func (f *TokenizedFunction) Parameters() []string   { return copyStrings(f.decl.Parameters) }
func (f *TokenizedFunction) ReturnsReference() bool { return f.decl.ReturnsReference }
func (f *TokenizedFunction) IsInternal() bool       { return false }
func (f *TokenizedFunction) IsUserDefined() bool    { return true }
func (f *TokenizedFunction) IsTokenized() bool      { return true }
func (f *TokenizedFunction) IsValid() bool          { return true }
func (f *TokenizedFunction) Reasons() []error       { return nil }

// DeclaringClassName returns the class FQN for methods, "" for functions
func (f *TokenizedFunction) DeclaringClassName() string { return f.decl.Class }

// IsAbstract reports an abstract method
func (f *TokenizedFunction) IsAbstract() bool { return f.decl.Modifiers.Has(types.ModifierAbstract) }

// IsStatic reports a static method
func (f *TokenizedFunction) IsStatic() bool { return f.decl.Modifiers.Has(types.ModifierStatic) }

func (f *TokenizedFunction) Source() (string, error) {
	return tokenSource(f.resolver, f.fileName, f.decl.Span)
}
