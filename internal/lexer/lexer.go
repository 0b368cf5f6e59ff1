package lexer

import "strings"

// Tokenizer turns normalized source text into tokens
type Tokenizer interface {
	Tokenize(source string) ([]Token, error)
}

// PHP is the built-in PHP tokenizer
type PHP struct{}

// Tokenize implements Tokenizer. It never fails: unterminated constructs
// extend to the end of the input.
func (PHP) Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Run(), nil
}

// Lexer produces PHP tokens from one source text
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a Lexer positioned at the start of input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// Run tokenizes the whole input. Concatenating the text of the returned
// tokens reproduces the input exactly.
func (l *Lexer) Run() []Token {
	for l.pos < len(l.input) {
		l.lexInlineHTML()
		if l.pos < len(l.input) {
			l.lexScript(false)
		}
	}
	return l.tokens
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) rest() string {
	return l.input[l.pos:]
}

func (l *Lexer) emit(kind TokenKind, start int) {
	text := l.input[start:l.pos]
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Line: l.line})
	l.line += strings.Count(text, "\n")
}

// emitChar emits the current byte as a single-character token with an
// unassigned line
func (l *Lexer) emitChar() {
	c := l.input[l.pos]
	l.pos++
	l.tokens = append(l.tokens, Token{Kind: Char(c), Text: l.input[l.pos-1 : l.pos]})
	if c == '\n' {
		l.line++
	}
}

func (l *Lexer) lexInlineHTML() {
	start := l.pos
	for l.pos < len(l.input) {
		if n := l.openTagLength(); n > 0 {
			if l.pos > start {
				l.emit(TokenInlineHTML, start)
			}
			kind := TokenOpenTag
			if strings.HasPrefix(l.rest(), "<?=") {
				kind = TokenOpenTagWithEcho
			}
			tagStart := l.pos
			l.pos += n
			l.emit(kind, tagStart)
			return
		}
		l.pos++
	}
	l.emit(TokenInlineHTML, start)
}

func (l *Lexer) openTagLength() int {
	rest := l.rest()
	if !strings.HasPrefix(rest, "<?") {
		return 0
	}
	if len(rest) >= 5 && strings.EqualFold(rest[:5], "<?php") {
		if len(rest) == 5 {
			return 5
		}
		if isSpace(rest[5]) {
			return 6
		}
	}
	if strings.HasPrefix(rest, "<?=") {
		return 3
	}
	if len(rest) == 2 || isSpace(rest[2]) {
		return 2
	}
	return 0
}

// lexScript scans PHP code. At the top level it returns after a close tag;
// when nested inside a string interpolation it returns after the brace that
// closes the interpolation.
func (l *Lexer) lexScript(nested bool) {
	depth := 0
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case isSpace(c):
			l.lexWhitespace()
		case c == '?' && l.peekAt(1) == '>' && !nested:
			start := l.pos
			l.pos += 2
			if l.pos < len(l.input) && l.input[l.pos] == '\n' {
				l.pos++
			}
			l.emit(TokenCloseTag, start)
			return
		case c == '#' && l.peekAt(1) == '[':
			start := l.pos
			l.pos += 2
			l.emit(TokenAttribute, start)
		case c == '#' || (c == '/' && l.peekAt(1) == '/'):
			l.lexLineComment()
		case c == '/' && l.peekAt(1) == '*':
			l.lexBlockComment()
		case c == '$' && isIdentStart(l.peekAt(1)):
			start := l.pos
			l.pos++
			l.scanIdent()
			l.emit(TokenVariable, start)
		case isIdentStart(c):
			l.lexIdentifier()
		case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
			l.lexNumber()
		case c == '\'':
			l.lexSingleQuoted()
		case c == '"':
			l.lexDoubleQuoted()
		case c == '`':
			l.emitChar()
			l.lexEncapsed(func() bool { return l.input[l.pos] == '`' })
			if l.pos < len(l.input) {
				l.emitChar()
			}
		case c == '<' && strings.HasPrefix(l.rest(), "<<<"):
			if !l.lexHeredoc() {
				l.lexOperator()
			}
		case c == '(':
			if !l.lexCast() {
				l.emitChar()
			}
		case c == '\\':
			start := l.pos
			l.pos++
			l.emit(TokenNsSeparator, start)
		case c == '{':
			depth++
			l.emitChar()
		case c == '}':
			if nested && depth == 0 {
				l.emitChar()
				return
			}
			depth--
			l.emitChar()
		default:
			l.lexOperator()
		}
	}
}

func (l *Lexer) lexWhitespace() {
	start := l.pos
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	l.emit(TokenWhitespace, start)
}

func (l *Lexer) lexLineComment() {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\n' || (c == '?' && l.peekAt(1) == '>') {
			break
		}
		l.pos++
	}
	l.emit(TokenComment, start)
}

func (l *Lexer) lexBlockComment() {
	start := l.pos
	kind := TokenComment
	if strings.HasPrefix(l.rest(), "/**") && isSpace(l.peekAt(3)) {
		kind = TokenDocComment
	}
	if end := strings.Index(l.input[l.pos+2:], "*/"); end >= 0 {
		l.pos += 2 + end + 2
	} else {
		l.pos = len(l.input)
	}
	l.emit(kind, start)
}

func (l *Lexer) scanIdent() {
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) lexIdentifier() {
	start := l.pos
	l.scanIdent()
	kind := TokenString
	if kw, ok := keywords[strings.ToLower(l.input[start:l.pos])]; ok && !l.isMemberName(kw) {
		kind = kw
	}
	l.emit(kind, start)
}

// isMemberName reports whether a reserved word in the current position is
// used as a member, method or constant name
func (l *Lexer) isMemberName(kw TokenKind) bool {
	switch l.lastSignificantKind() {
	case TokenObjectOperator, TokenNullsafeObjectOperator, TokenFunction, TokenConst:
		return true
	case TokenDoubleColon:
		return kw != TokenClass
	}
	return false
}

func (l *Lexer) lastSignificantKind() TokenKind {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		switch l.tokens[i].Kind {
		case TokenWhitespace, TokenComment, TokenDocComment:
			continue
		}
		return l.tokens[i].Kind
	}
	return 0
}

func (l *Lexer) scanDigits(valid func(byte) bool) {
	for l.pos < len(l.input) && (valid(l.input[l.pos]) || l.input[l.pos] == '_') {
		l.pos++
	}
}

func (l *Lexer) lexNumber() {
	start := l.pos
	kind := TokenLNumber
	switch {
	case l.input[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X'):
		l.pos += 2
		l.scanDigits(isHexDigit)
	case l.input[l.pos] == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B'):
		l.pos += 2
		l.scanDigits(func(c byte) bool { return c == '0' || c == '1' })
	case l.input[l.pos] == '0' && (l.peekAt(1) == 'o' || l.peekAt(1) == 'O'):
		l.pos += 2
		l.scanDigits(func(c byte) bool { return c >= '0' && c <= '7' })
	default:
		l.scanDigits(isDigit)
		if l.pos < len(l.input) && l.input[l.pos] == '.' && l.peekAt(1) != '.' {
			kind = TokenDNumber
			l.pos++
			l.scanDigits(isDigit)
		}
		if c := l.peekAt(0); c == 'e' || c == 'E' {
			next := l.peekAt(1)
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
				kind = TokenDNumber
				l.pos += 2
				l.scanDigits(isDigit)
			}
		}
	}
	l.emit(kind, start)
}

func (l *Lexer) lexSingleQuoted() {
	start := l.pos
	l.pos++
	terminated := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		l.pos++
		if c == '\'' {
			terminated = true
			break
		}
	}
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
	if terminated {
		l.emit(TokenConstantEncapsedString, start)
	} else {
		l.emit(TokenEncapsedAndWhitespace, start)
	}
}

func (l *Lexer) lexDoubleQuoted() {
	if end, ok := l.plainStringEnd('"'); ok {
		start := l.pos
		l.pos = end
		l.emit(TokenConstantEncapsedString, start)
		return
	}
	l.emitChar()
	l.lexEncapsed(func() bool { return l.input[l.pos] == '"' })
	if l.pos < len(l.input) {
		l.emitChar()
	}
}

// plainStringEnd returns the end offset of a quoted string without
// interpolation starting at the current position
func (l *Lexer) plainStringEnd(quote byte) (int, bool) {
	for i := l.pos + 1; i < len(l.input); i++ {
		c := l.input[i]
		var next byte
		if i+1 < len(l.input) {
			next = l.input[i+1]
		}
		switch {
		case c == '\\':
			i++
		case c == quote:
			return i + 1, true
		case c == '$' && (isIdentStart(next) || next == '{'):
			return 0, false
		case c == '{' && next == '$':
			return 0, false
		}
	}
	return 0, false
}

// lexEncapsed scans the body of an interpolated string until stop reports
// the terminator at the current position
func (l *Lexer) lexEncapsed(stop func() bool) {
	start := l.pos
	flush := func() {
		if l.pos > start {
			l.emit(TokenEncapsedAndWhitespace, start)
		}
	}
	for l.pos < len(l.input) {
		if stop() {
			break
		}
		c := l.input[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
			if l.pos > len(l.input) {
				l.pos = len(l.input)
			}
		case c == '$' && isIdentStart(l.peekAt(1)):
			flush()
			l.lexStringVariable()
			start = l.pos
		case c == '$' && l.peekAt(1) == '{':
			flush()
			l.lexDollarBrace()
			start = l.pos
		case c == '{' && l.peekAt(1) == '$':
			flush()
			s := l.pos
			l.pos++
			l.emit(TokenCurlyOpen, s)
			l.lexScript(true)
			start = l.pos
		default:
			l.pos++
		}
	}
	flush()
}

// lexStringVariable scans a simple interpolated variable with an optional
// array offset or property fetch
func (l *Lexer) lexStringVariable() {
	s := l.pos
	l.pos++
	l.scanIdent()
	l.emit(TokenVariable, s)
	if l.pos >= len(l.input) {
		return
	}

	switch rest := l.rest(); {
	case rest[0] == '[':
		l.emitChar()
		if l.peekAt(0) == '-' && isDigit(l.peekAt(1)) {
			l.emitChar()
		}
		c := l.peekAt(0)
		s = l.pos
		switch {
		case isDigit(c):
			l.scanDigits(isDigit)
			l.emit(TokenNumString, s)
		case isIdentStart(c):
			l.scanIdent()
			l.emit(TokenString, s)
		case c == '$' && isIdentStart(l.peekAt(1)):
			l.pos++
			l.scanIdent()
			l.emit(TokenVariable, s)
		}
		if l.peekAt(0) == ']' {
			l.emitChar()
		}
	case strings.HasPrefix(rest, "->") && isIdentStart(l.peekAt(2)):
		op := l.pos
		l.pos += 2
		l.emit(TokenObjectOperator, op)
		s = l.pos
		l.scanIdent()
		l.emit(TokenString, s)
	case strings.HasPrefix(rest, "?->") && isIdentStart(l.peekAt(3)):
		op := l.pos
		l.pos += 3
		l.emit(TokenNullsafeObjectOperator, op)
		s = l.pos
		l.scanIdent()
		l.emit(TokenString, s)
	}
}

func (l *Lexer) lexDollarBrace() {
	s := l.pos
	l.pos += 2
	l.emit(TokenDollarOpenCurlyBraces, s)

	save := l.pos
	if isIdentStart(l.peekAt(0)) {
		l.scanIdent()
		if c := l.peekAt(0); c == '}' || c == '[' {
			l.emit(TokenStringVarname, save)
		} else {
			l.pos = save
		}
	}
	l.lexScript(true)
}

func (l *Lexer) lexHeredoc() bool {
	rest := l.rest()
	i := 3
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	var quote byte
	if i < len(rest) && (rest[i] == '"' || rest[i] == '\'') {
		quote = rest[i]
		i++
	}
	labelStart := i
	if i >= len(rest) || !isIdentStart(rest[i]) {
		return false
	}
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}
	label := rest[labelStart:i]
	if quote != 0 {
		if i >= len(rest) || rest[i] != quote {
			return false
		}
		i++
	}
	if i >= len(rest) || rest[i] != '\n' {
		return false
	}
	i++

	start := l.pos
	l.pos += i
	l.emit(TokenStartHeredoc, start)

	bodyStart := l.pos
	closing := func() bool {
		if l.pos != bodyStart && l.input[l.pos-1] != '\n' {
			return false
		}
		_, ok := l.heredocEnd(label)
		return ok
	}

	if quote == '\'' {
		s := l.pos
		for l.pos < len(l.input) && !closing() {
			l.pos++
		}
		if l.pos > s {
			l.emit(TokenEncapsedAndWhitespace, s)
		}
	} else {
		l.lexEncapsed(closing)
	}

	if l.pos < len(l.input) {
		if end, ok := l.heredocEnd(label); ok {
			s := l.pos
			l.pos = end
			l.emit(TokenEndHeredoc, s)
		}
	}
	return true
}

// heredocEnd returns the end offset of a closing label starting at the
// current position, allowing indentation
func (l *Lexer) heredocEnd(label string) (int, bool) {
	i := l.pos
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	if !strings.HasPrefix(l.input[i:], label) {
		return 0, false
	}
	j := i + len(label)
	if j < len(l.input) && isIdentChar(l.input[j]) {
		return 0, false
	}
	return j, true
}

func (l *Lexer) lexCast() bool {
	rest := l.rest()
	i := 1
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	j := i
	for j < len(rest) && isLetter(rest[j]) {
		j++
	}
	kind, ok := casts[strings.ToLower(rest[i:j])]
	if !ok {
		return false
	}
	for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
		j++
	}
	if j >= len(rest) || rest[j] != ')' {
		return false
	}
	start := l.pos
	l.pos += j + 1
	l.emit(kind, start)
	return true
}

func (l *Lexer) lexOperator() {
	rest := l.rest()
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			start := l.pos
			l.pos += len(op.text)
			l.emit(op.kind, start)
			return
		}
	}
	if c := rest[0]; c < 0x20 || c == 0x7f {
		start := l.pos
		l.pos++
		l.emit(TokenBadCharacter, start)
		return
	}
	l.emitChar()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
