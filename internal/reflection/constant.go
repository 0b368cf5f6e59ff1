package reflection

import "github.com/dshills/phpreflect/pkg/types"

// TokenizedConstant is a namespace or class constant declared in analyzed source
type TokenizedConstant struct {
	decl     types.ConstantDecl
	fileName string
	resolver Resolver
}

// NewTokenizedConstant wraps a parsed declaration
func NewTokenizedConstant(decl types.ConstantDecl, fileName string, resolver Resolver) *TokenizedConstant {
	return &TokenizedConstant{decl: decl, fileName: fileName, resolver: resolver}
}

func (c *TokenizedConstant) Name() string {
	if c.decl.Class != "" {
		return c.decl.Name
	}
	return c.decl.FQN()
}

func (c *TokenizedConstant) ShortName() string          { return c.decl.Name }
func (c *TokenizedConstant) NamespaceName() string      { return namespaceOf(types.QualifiedName(c.decl.Namespace, c.decl.Name)) }
func (c *TokenizedConstant) DeclaringClassName() string { return c.decl.Class }
func (c *TokenizedConstant) FileName() string           { return c.fileName }
func (c *TokenizedConstant) StartLine() int             { return c.decl.StartLine }
func (c *TokenizedConstant) EndLine() int               { return c.decl.EndLine }
func (c *TokenizedConstant) DocComment() string         { return c.decl.DocComment }
func (c *TokenizedConstant) ValueDefinition() string    { return c.decl.Value }
func (c *TokenizedConstant) IsInternal() bool           { return false }
func (c *TokenizedConstant) IsUserDefined() bool        { return true }
func (c *TokenizedConstant) IsTokenized() bool          { return true }
func (c *TokenizedConstant) IsValid() bool              { return true }
func (c *TokenizedConstant) Reasons() []error           { return nil }

// Value folds the definition when it is a literal. References to other
// constants are not evaluated.
func (c *TokenizedConstant) Value() (any, bool) {
	return FoldLiteral(c.decl.Value)
}

func (c *TokenizedConstant) Source() (string, error) {
	return tokenSource(c.resolver, c.fileName, c.decl.Span)
}
