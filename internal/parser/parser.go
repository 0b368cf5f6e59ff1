package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/dshills/phpreflect/internal/lexer"
	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

// Parser scans token streams for structural declarations
type Parser struct {
	tokenizer lexer.Tokenizer
}

// New creates a Parser using the built-in PHP tokenizer
func New() *Parser {
	return &Parser{tokenizer: lexer.PHP{}}
}

// NewWithTokenizer creates a Parser that tokenizes source with t
func NewWithTokenizer(t lexer.Tokenizer) *Parser {
	return &Parser{tokenizer: t}
}

// ParseFile reads, tokenizes and scans a PHP source file. The returned
// records carry the canonical path of the file.
func (p *Parser) ParseFile(path string) (*stream.TokenStream, *types.FileDecl, error) {
	canonical, err := stream.CanonicalPath(path)
	if err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(canonical)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", types.ErrNotReadable, canonical, err)
	}
	return p.ParseSource(string(content), canonical)
}

// ParseSource tokenizes and scans source labelled fileName
func (p *Parser) ParseSource(source, fileName string) (*stream.TokenStream, *types.FileDecl, error) {
	ts, err := stream.NewWithTokenizer(p.tokenizer, source, fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to tokenize %s: %w", fileName, err)
	}
	return ts, p.ParseStream(ts), nil
}

// ParseStream extracts the declarations of ts. Problems such as unmatched
// brackets are recorded in FileDecl.Errors and the partial result is
// returned. The stream cursor is rewound afterwards.
func (p *Parser) ParseStream(ts *stream.TokenStream) *types.FileDecl {
	s := &scanner{
		ts:    ts,
		toks:  ts.Tokens(),
		file:  &types.FileDecl{FileName: ts.FileName()},
		uses:  make(map[string]string),
		nsEnd: -1,
	}
	s.run()
	ts.Rewind()
	return s.file
}

const noKind lexer.TokenKind = -1

// scanner holds the state of one pass over a token stream
type scanner struct {
	ts   *stream.TokenStream
	toks []lexer.Token
	file *types.FileDecl

	namespace string
	// uses maps lowercase import aliases to FQNs
	uses map[string]string
	// nsEnd is the closing brace of the current braced namespace, or -1
	nsEnd int
	// doc is the doc comment waiting for the next declaration
	doc string
}

func (s *scanner) run() {
	for i := 0; i < len(s.toks); {
		i = s.statement(i)
	}
}

// statement handles the token at i and returns the next index to visit
func (s *scanner) statement(i int) int {
	if s.nsEnd >= 0 && i >= s.nsEnd {
		end := s.nsEnd
		s.enterNamespace("")
		if i == end {
			return i + 1
		}
	}

	tok := s.toks[i]
	switch tok.Kind {
	case lexer.TokenWhitespace, lexer.TokenComment, lexer.TokenOpenTag:
		return i + 1
	case lexer.TokenDocComment:
		s.doc = tok.Text
		return i + 1
	case lexer.TokenAttribute:
		return s.skipAttribute(i)
	case lexer.TokenNamespace:
		return s.namespaceDecl(i)
	case lexer.TokenUse:
		return s.useDecl(i)
	case lexer.TokenAbstract, lexer.TokenFinal, lexer.TokenReadonly,
		lexer.TokenClass, lexer.TokenInterface, lexer.TokenTrait:
		return s.classDecl(i)
	case lexer.TokenFunction:
		return s.functionDecl(i)
	case lexer.TokenConst:
		return s.constDecl(i)
	case lexer.TokenNew:
		return s.skipAnonymousClass(i)
	case lexer.TokenDoubleColon:
		// Foo::class
		if j := s.next(i); s.kindAt(j) == lexer.TokenClass {
			s.doc = ""
			return j + 1
		}
	case lexer.TokenHaltCompiler:
		return len(s.toks)
	case lexer.TokenString:
		switch strings.ToLower(tok.Text) {
		case "define":
			return s.defineCall(i)
		case "enum":
			return s.skipEnum(i)
		}
	}
	s.doc = ""
	return i + 1
}

func (s *scanner) enterNamespace(name string) {
	s.namespace = name
	s.uses = make(map[string]string)
	s.nsEnd = -1
}

func (s *scanner) namespaceDecl(i int) int {
	s.doc = ""
	j := s.next(i)
	if s.kindAt(j) == lexer.TokenNsSeparator {
		// namespace\name() is a relative name, not a declaration
		return i + 1
	}

	name, j := s.readName(j)
	name = strings.Trim(name, `\`)
	s.enterNamespace(name)
	s.file.Namespace(name)

	switch s.kindAt(j) {
	case lexer.Char('{'):
		end, ok := s.match(j)
		if !ok {
			s.errorf(j, "unmatched brace in namespace %q", name)
			return j + 1
		}
		s.nsEnd = end
		return j + 1
	case lexer.Char(';'):
		return j + 1
	default:
		s.errorf(i, "malformed namespace declaration")
		return max(j, i+1)
	}
}

// useDecl records import aliases. Function and constant imports are skipped.
func (s *scanner) useDecl(i int) int {
	s.doc = ""
	j := s.next(i)
	switch s.kindAt(j) {
	case lexer.TokenFunction, lexer.TokenConst:
		return s.skipStatement(j, len(s.toks))
	}

	for j < len(s.toks) {
		name, nj := s.readName(j)
		if name == "" {
			break
		}
		j = nj

		if s.kindAt(j) == lexer.Char('{') {
			j = s.groupUse(strings.TrimRight(name, `\`), j)
		} else {
			alias := ""
			if s.kindAt(j) == lexer.TokenAs {
				j = s.next(j)
				if s.isName(j) {
					alias = s.toks[j].Text
					j = s.next(j)
				}
			}
			s.addUse(name, alias)
		}

		if s.kindAt(j) != lexer.Char(',') {
			break
		}
		j = s.next(j)
	}
	return s.skipStatement(j, len(s.toks))
}

// groupUse handles use Prefix\{A, B as C}; open is the index of {
func (s *scanner) groupUse(prefix string, open int) int {
	j := s.next(open)
	for j < len(s.toks) && s.kindAt(j) != lexer.Char('}') {
		skip := false
		if k := s.kindAt(j); k == lexer.TokenFunction || k == lexer.TokenConst {
			skip = true
			j = s.next(j)
		}

		name, nj := s.readName(j)
		if name == "" {
			return j
		}
		j = nj
		alias := ""
		if s.kindAt(j) == lexer.TokenAs {
			j = s.next(j)
			if s.isName(j) {
				alias = s.toks[j].Text
				j = s.next(j)
			}
		}
		if !skip {
			s.addUse(prefix+`\`+name, alias)
		}
		if s.kindAt(j) == lexer.Char(',') {
			j = s.next(j)
		}
	}
	return s.next(j)
}

func (s *scanner) addUse(name, alias string) {
	name = strings.TrimLeft(name, `\`)
	if alias == "" {
		_, alias = types.SplitName(name)
	}
	s.uses[strings.ToLower(alias)] = name
}

// resolve turns a class reference into an FQN using the current namespace
// and import aliases
func (s *scanner) resolve(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, `\`) {
		return strings.TrimLeft(name, `\`)
	}

	lower := strings.ToLower(name)
	switch lower {
	case "self", "static", "parent":
		return name
	}
	if strings.HasPrefix(lower, `namespace\`) {
		return types.QualifiedName(s.namespace, name[len(`namespace\`):])
	}

	first, rest, qualified := strings.Cut(name, `\`)
	if fqn, ok := s.uses[strings.ToLower(first)]; ok {
		if !qualified {
			return fqn
		}
		return fqn + `\` + rest
	}
	return types.QualifiedName(s.namespace, name)
}

func (s *scanner) classDecl(i int) int {
	doc := s.doc
	s.doc = ""

	var mods types.Modifier
	j := i
modifiers:
	for {
		switch s.kindAt(j) {
		case lexer.TokenAbstract:
			mods |= types.ModifierAbstract
		case lexer.TokenFinal:
			mods |= types.ModifierFinal
		case lexer.TokenReadonly:
		default:
			break modifiers
		}
		j = s.next(j)
	}

	var kind types.SymbolKind
	switch s.kindAt(j) {
	case lexer.TokenClass:
		kind = types.KindClass
	case lexer.TokenInterface:
		kind = types.KindInterface
	case lexer.TokenTrait:
		kind = types.KindTrait
	default:
		return i + 1
	}
	if p := s.kindAt(s.prev(j)); p == lexer.TokenDoubleColon || p == lexer.TokenNew {
		return j + 1
	}

	nameIdx := s.next(j)
	if !s.isName(nameIdx) {
		s.errorf(j, "missing %s name", kind)
		return nameIdx
	}

	decl := types.ClassDecl{
		Name:       s.toks[nameIdx].Text,
		Namespace:  s.namespace,
		Kind:       kind,
		DocComment: doc,
		Modifiers:  mods,
	}
	decl.StartToken = i
	decl.StartLine = s.toks[i].Line

	j = s.next(nameIdx)
	for j < len(s.toks) && s.kindAt(j) != lexer.Char('{') {
		switch s.kindAt(j) {
		case lexer.TokenExtends:
			names, nj := s.readNameList(s.next(j))
			if kind == types.KindInterface {
				decl.Interfaces = append(decl.Interfaces, names...)
			} else if len(names) > 0 {
				decl.Parent = names[0]
			}
			j = nj
		case lexer.TokenImplements:
			names, nj := s.readNameList(s.next(j))
			decl.Interfaces = append(decl.Interfaces, names...)
			j = nj
		default:
			s.errorf(j, "unexpected %s in declaration of %s", s.toks[j].Kind, decl.FQN())
			return j
		}
	}
	if j >= len(s.toks) {
		s.errorf(i, "unexpected end of file in declaration of %s", decl.FQN())
		return j
	}

	end, ok := s.match(j)
	if !ok {
		s.errorf(j, "unmatched brace in declaration of %s", decl.FQN())
		end = len(s.toks) - 1
	}
	s.classBody(&decl, j+1, end)
	decl.EndToken = end
	decl.EndLine = s.toks[end].Line

	ns := s.file.Namespace(s.namespace)
	ns.Classes = append(ns.Classes, decl)
	return end + 1
}

func modifierOf(kind lexer.TokenKind) types.Modifier {
	switch kind {
	case lexer.TokenPublic, lexer.TokenVar:
		return types.ModifierPublic
	case lexer.TokenProtected:
		return types.ModifierProtected
	case lexer.TokenPrivate:
		return types.ModifierPrivate
	case lexer.TokenStatic:
		return types.ModifierStatic
	case lexer.TokenAbstract:
		return types.ModifierAbstract
	case lexer.TokenFinal:
		return types.ModifierFinal
	}
	return 0
}

// classBody scans the members between from and the closing brace at to
func (s *scanner) classBody(decl *types.ClassDecl, from, to int) {
	doc := ""
	var mods types.Modifier
	start := -1

	for k := from; k < to; {
		tok := s.toks[k]
		switch tok.Kind {
		case lexer.TokenWhitespace, lexer.TokenComment:
			k++
			continue
		case lexer.TokenDocComment:
			doc = tok.Text
			k++
			continue
		case lexer.TokenAttribute:
			k = s.skipAttribute(k)
			continue
		case lexer.TokenPublic, lexer.TokenProtected, lexer.TokenPrivate, lexer.TokenStatic,
			lexer.TokenAbstract, lexer.TokenFinal, lexer.TokenVar, lexer.TokenReadonly:
			if start < 0 {
				start = k
			}
			mods |= modifierOf(tok.Kind)
			k++
			continue
		}

		if start < 0 {
			start = k
		}
		switch tok.Kind {
		case lexer.TokenUse:
			k = s.traitUse(decl, k, to)
		case lexer.TokenConst:
			var constants []types.ConstantDecl
			constants, k = s.constants(k, to, decl.FQN(), doc, start)
			decl.Constants = append(decl.Constants, constants...)
		case lexer.TokenFunction:
			k = s.method(decl, k, to, doc, mods, start)
		default:
			k = s.skipMember(k, to)
		}
		doc = ""
		mods = 0
		start = -1
	}
}

func (s *scanner) traitUse(decl *types.ClassDecl, k, to int) int {
	names, j := s.readNameList(s.next(k))
	decl.Traits = append(decl.Traits, names...)
	if s.kindAt(j) == lexer.Char('{') {
		// adaptation block
		if end, ok := s.match(j); ok && end < to {
			return end + 1
		}
		s.errorf(j, "unmatched brace in trait adaptations of %s", decl.FQN())
		return to
	}
	return s.skipStatement(j, to)
}

func (s *scanner) method(decl *types.ClassDecl, k, to int, doc string, mods types.Modifier, start int) int {
	fn, named, end := s.signature(k, to)
	if !named {
		return end + 1
	}
	fn.Namespace = s.namespace
	fn.Class = decl.FQN()
	fn.DocComment = doc
	fn.Modifiers = mods
	if decl.Kind == types.KindInterface {
		fn.Modifiers |= types.ModifierAbstract
	}
	fn.StartToken = start
	fn.StartLine = s.toks[start].Line
	fn.EndToken = end
	fn.EndLine = s.toks[end].Line
	decl.Methods = append(decl.Methods, fn)
	return end + 1
}

// signature scans function [&] [name] (params) [use (...)] [: type] {body}|;
// starting at the function keyword k. end is the index of the closing brace
// or semicolon.
func (s *scanner) signature(k, limit int) (fn types.FunctionDecl, named bool, end int) {
	j := s.next(k)
	if s.kindAt(j) == lexer.Char('&') {
		fn.ReturnsReference = true
		j = s.next(j)
	}
	if s.isName(j) {
		fn.Name = s.toks[j].Text
		named = true
		j = s.next(j)
	}
	if s.kindAt(j) != lexer.Char('(') {
		s.errorf(k, "malformed function declaration")
		return fn, false, min(j, limit-1)
	}

	closing, ok := s.match(j)
	if !ok {
		s.errorf(j, "unmatched parenthesis in parameters of %s", fn.Name)
		return fn, named, limit - 1
	}
	fn.Parameters = s.parameters(j, closing)

	for b := s.next(closing); b < limit; b = s.next(b) {
		switch s.kindAt(b) {
		case lexer.Char(';'):
			return fn, named, b
		case lexer.Char('{'):
			e, ok := s.match(b)
			if !ok {
				s.errorf(b, "unmatched brace in body of %s", fn.Name)
				return fn, named, limit - 1
			}
			return fn, named, e
		case lexer.Char('('):
			// closure use clause or DNF return type
			if e, ok := s.match(b); ok {
				b = e
			}
		}
	}
	s.errorf(k, "unterminated function %s", fn.Name)
	return fn, named, limit - 1
}

// parameters collects the parameter names between the parentheses at open
// and closing, without the leading $
func (s *scanner) parameters(open, closing int) []string {
	var params []string
	depth := 0
	for j := open; j <= closing; j++ {
		switch k := s.toks[j].Kind; k {
		case lexer.Char('('), lexer.Char('['), lexer.Char('{'), lexer.TokenAttribute:
			depth++
		case lexer.Char(')'), lexer.Char(']'), lexer.Char('}'):
			depth--
		case lexer.TokenVariable:
			if depth == 1 {
				params = append(params, strings.TrimPrefix(s.toks[j].Text, "$"))
			}
		}
	}
	return params
}

func (s *scanner) functionDecl(i int) int {
	doc := s.doc
	s.doc = ""

	fn, named, end := s.signature(i, len(s.toks))
	if !named {
		// closures are skipped whole
		return end + 1
	}
	fn.Namespace = s.namespace
	fn.DocComment = doc
	fn.StartToken = i
	fn.StartLine = s.toks[i].Line
	fn.EndToken = end
	fn.EndLine = s.toks[end].Line

	ns := s.file.Namespace(s.namespace)
	ns.Functions = append(ns.Functions, fn)
	return end + 1
}

func (s *scanner) constDecl(i int) int {
	doc := s.doc
	s.doc = ""

	constants, next := s.constants(i, len(s.toks), "", doc, i)
	if len(constants) > 0 {
		ns := s.file.Namespace(s.namespace)
		ns.Constants = append(ns.Constants, constants...)
	}
	return next
}

// constants scans const [type] A = expr, B = expr; starting at the const
// keyword k. class is the declaring class FQN, "" for namespace constants.
func (s *scanner) constants(k, limit int, class, doc string, start int) ([]types.ConstantDecl, int) {
	var out []types.ConstantDecl
	j := s.next(k)
	for j < limit {
		// the name is the last identifier before =, after an optional type
		nameIdx := -1
		for ; j < limit && s.kindAt(j) != lexer.Char('='); j = s.next(j) {
			switch {
			case s.isName(j):
				nameIdx = j
			case s.isTerminator(j):
				s.errorf(k, "malformed constant declaration")
				return out, j + 1
			}
		}
		if nameIdx < 0 || j >= limit {
			s.errorf(k, "malformed constant declaration")
			return out, max(j, k+1)
		}

		valueStart := s.next(j)
		valueEnd := s.expressionEnd(valueStart, limit)
		value := ""
		if valueEnd > valueStart {
			value = strings.TrimSpace(s.ts.SourcePart(valueStart, valueEnd-1))
		}

		cd := types.ConstantDecl{
			Name:       s.toks[nameIdx].Text,
			Namespace:  s.namespace,
			Class:      class,
			Value:      value,
			DocComment: doc,
		}
		if len(out) == 0 {
			cd.StartToken = start
		} else {
			cd.StartToken = nameIdx
		}
		cd.StartLine = s.toks[cd.StartToken].Line
		cd.EndToken = s.lastSignificant(valueEnd)
		cd.EndLine = s.toks[cd.EndToken].Line
		out = append(out, cd)

		if valueEnd >= limit || s.kindAt(valueEnd) != lexer.Char(',') {
			return out, min(valueEnd+1, limit)
		}
		j = s.next(valueEnd)
	}
	return out, j
}

// expressionEnd returns the index of the , ; or close tag ending the
// expression that starts at j, skipping nested brackets
func (s *scanner) expressionEnd(j, limit int) int {
	for ; j < limit; j++ {
		k := s.toks[j].Kind
		switch {
		case k == lexer.Char(',') || s.isTerminator(j):
			return j
		case k == lexer.Char('(') || k == lexer.Char('[') || k == lexer.Char('{'):
			e, ok := s.match(j)
			if !ok {
				return limit
			}
			j = e
		case k == lexer.Char(')') || k == lexer.Char(']') || k == lexer.Char('}'):
			return j
		}
	}
	return limit
}

// defineCall records define('NAME', value). The name is always global.
func (s *scanner) defineCall(i int) int {
	doc := s.doc
	s.doc = ""

	switch s.kindAt(s.prev(i)) {
	case lexer.TokenObjectOperator, lexer.TokenNullsafeObjectOperator, lexer.TokenDoubleColon,
		lexer.TokenFunction, lexer.TokenNew, lexer.TokenConst:
		return i + 1
	case lexer.TokenNsSeparator:
		if s.isName(s.prev(s.prev(i))) {
			return i + 1
		}
	}

	open := s.next(i)
	if s.kindAt(open) != lexer.Char('(') {
		return i + 1
	}
	closing, ok := s.match(open)
	if !ok {
		s.errorf(open, "unmatched parenthesis in define call")
		return open + 1
	}

	nameIdx := s.next(open)
	comma := s.next(nameIdx)
	if s.kindAt(nameIdx) != lexer.TokenConstantEncapsedString || s.kindAt(comma) != lexer.Char(',') {
		return closing + 1
	}
	raw, ok := reflection.FoldLiteral(s.toks[nameIdx].Text)
	name, isString := raw.(string)
	if !ok || !isString || name == "" {
		return closing + 1
	}

	valueStart := s.next(comma)
	valueEnd := s.expressionEnd(valueStart, closing)
	if valueEnd <= valueStart {
		return closing + 1
	}

	namespace, short := types.SplitName(name)
	if namespace == types.NoNamespace {
		namespace = ""
	}
	cd := types.ConstantDecl{
		Name:       short,
		Namespace:  namespace,
		Value:      strings.TrimSpace(s.ts.SourcePart(valueStart, valueEnd-1)),
		DocComment: doc,
	}
	cd.StartToken = i
	cd.StartLine = s.toks[i].Line
	cd.EndToken = closing
	cd.EndLine = s.toks[closing].Line

	ns := s.file.Namespace(namespace)
	ns.Constants = append(ns.Constants, cd)
	return closing + 1
}

// skipAnonymousClass jumps over new class(...) {...}
func (s *scanner) skipAnonymousClass(i int) int {
	s.doc = ""
	j := s.next(i)
	for s.kindAt(j) == lexer.TokenAttribute {
		j = s.next(s.skipAttribute(j) - 1)
	}
	if s.kindAt(j) != lexer.TokenClass {
		return i + 1
	}
	for b := s.next(j); b < len(s.toks); b = s.next(b) {
		switch s.kindAt(b) {
		case lexer.Char('('):
			if e, ok := s.match(b); ok {
				b = e
			}
		case lexer.Char('{'):
			if e, ok := s.match(b); ok {
				return e + 1
			}
			s.errorf(b, "unmatched brace in anonymous class")
			return b + 1
		case lexer.Char(';'):
			return b + 1
		}
	}
	return len(s.toks)
}

// skipEnum jumps over enum bodies so their methods are not taken for functions
func (s *scanner) skipEnum(i int) int {
	s.doc = ""
	name := s.next(i)
	if !s.isName(name) || s.kindAt(s.prev(i)) == lexer.TokenNew {
		return i + 1
	}
	switch s.kindAt(s.next(name)) {
	case lexer.Char('{'), lexer.Char(':'), lexer.TokenImplements:
	default:
		return i + 1
	}
	for b := s.next(name); b < len(s.toks); b = s.next(b) {
		if s.kindAt(b) == lexer.Char('{') {
			if e, ok := s.match(b); ok {
				return e + 1
			}
			s.errorf(b, "unmatched brace in enum %s", s.toks[name].Text)
			return b + 1
		}
	}
	return len(s.toks)
}

// skipAttribute returns the index after the ] closing the #[ at i
func (s *scanner) skipAttribute(i int) int {
	depth := 1
	for j := i + 1; j < len(s.toks); j++ {
		switch s.toks[j].Kind {
		case lexer.Char('['), lexer.TokenAttribute:
			depth++
		case lexer.Char(']'):
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	s.errorf(i, "unterminated attribute")
	return len(s.toks)
}

// skipMember jumps over properties, enum cases and stray tokens up to the
// next ; or braced block
func (s *scanner) skipMember(k, to int) int {
	for j := k; j < to; j++ {
		switch kind := s.toks[j].Kind; {
		case kind == lexer.Char(';'):
			return j + 1
		case kind == lexer.Char('{'):
			// property hooks
			if e, ok := s.match(j); ok && e < to {
				return e + 1
			}
			return to
		case kind == lexer.Char('(') || kind == lexer.Char('['):
			if e, ok := s.match(j); ok && e < to {
				j = e
			}
		}
	}
	return to
}

// skipStatement returns the index after the next terminator
func (s *scanner) skipStatement(j, limit int) int {
	for ; j < limit; j++ {
		if s.isTerminator(j) {
			return j + 1
		}
	}
	return limit
}

// readName reads a possibly qualified name starting at j and returns it
// with the index of the next significant token
func (s *scanner) readName(j int) (string, int) {
	var sb strings.Builder
	prev := noKind
	for j < len(s.toks) {
		tok := s.toks[j]
		ok := false
		switch {
		case tok.Kind == lexer.TokenNsSeparator:
			ok = prev != lexer.TokenNsSeparator
		case tok.Kind == lexer.TokenString:
			ok = prev == noKind || prev == lexer.TokenNsSeparator
		case tok.Kind == lexer.TokenNamespace:
			ok = prev == noKind && s.kindAt(s.next(j)) == lexer.TokenNsSeparator
		case isKeyword(tok.Kind):
			ok = prev == lexer.TokenNsSeparator
		}
		if !ok {
			break
		}
		sb.WriteString(tok.Text)
		prev = tok.Kind
		j = s.next(j)
	}
	return sb.String(), j
}

// readNameList reads comma separated names and resolves them to FQNs
func (s *scanner) readNameList(j int) ([]string, int) {
	var names []string
	for {
		name, nj := s.readName(j)
		if name == "" {
			return names, j
		}
		names = append(names, s.resolve(name))
		j = nj
		if s.kindAt(j) != lexer.Char(',') {
			return names, j
		}
		j = s.next(j)
	}
}

// match returns the index of the bracket closing the one at j
func (s *scanner) match(j int) (int, bool) {
	s.ts.Seek(j)
	if _, err := s.ts.FindMatchingBracket(); err != nil {
		return 0, false
	}
	return s.ts.Key(), true
}

// next returns the index of the first significant token after j
func (s *scanner) next(j int) int {
	if j >= len(s.toks) {
		return len(s.toks)
	}
	s.ts.Seek(j)
	return min(s.ts.SkipWhitespaces(true).Key(), len(s.toks))
}

// prev returns the index of the last significant token before j, or -1
func (s *scanner) prev(j int) int {
	for j--; j >= 0; j-- {
		if !isTrivia(s.toks[j].Kind) {
			return j
		}
	}
	return -1
}

// lastSignificant returns the last significant token before end
func (s *scanner) lastSignificant(end int) int {
	if p := s.prev(end); p >= 0 {
		return p
	}
	return 0
}

func (s *scanner) kindAt(j int) lexer.TokenKind {
	if j < 0 || j >= len(s.toks) {
		return noKind
	}
	return s.toks[j].Kind
}

func (s *scanner) isName(j int) bool {
	k := s.kindAt(j)
	return k == lexer.TokenString || isKeyword(k)
}

func (s *scanner) isTerminator(j int) bool {
	k := s.kindAt(j)
	return k == lexer.Char(';') || k == lexer.TokenCloseTag
}

func (s *scanner) errorf(j int, format string, args ...any) {
	line := 0
	if j >= 0 && j < len(s.toks) {
		line = s.toks[j].Line
	}
	s.file.AddError(line, fmt.Sprintf(format, args...))
}

func isTrivia(k lexer.TokenKind) bool {
	switch k {
	case lexer.TokenWhitespace, lexer.TokenComment, lexer.TokenDocComment:
		return true
	}
	return false
}

// isKeyword reports reserved words, which are valid in member names and
// after a namespace separator
func isKeyword(k lexer.TokenKind) bool {
	return k >= lexer.TokenAbstract && k <= lexer.TokenCallable
}
