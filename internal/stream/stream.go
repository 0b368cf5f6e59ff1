package stream

import (
	"fmt"
	"strings"

	"github.com/dshills/phpreflect/internal/lexer"
	"github.com/dshills/phpreflect/pkg/types"
)

// softKeywords are promoted from TokenString during construction
var softKeywords = map[string]lexer.TokenKind{
	"trait":     lexer.TokenTrait,
	"__trait__": lexer.TokenTraitC,
	"insteadof": lexer.TokenInsteadof,
	"callable":  lexer.TokenCallable,
}

// multiline kinds may span lines; a synthesized line after one of them
// counts its newlines
var multiline = map[lexer.TokenKind]bool{
	lexer.TokenComment:                true,
	lexer.TokenWhitespace:             true,
	lexer.TokenDocComment:             true,
	lexer.TokenInlineHTML:             true,
	lexer.TokenConstantEncapsedString: true,
}

// brackets maps every opener to the closer of its family
var brackets = map[lexer.TokenKind]lexer.TokenKind{
	lexer.Char('('):                  lexer.Char(')'),
	lexer.Char('['):                  lexer.Char(']'),
	lexer.Char('{'):                  lexer.Char('}'),
	lexer.TokenCurlyOpen:             lexer.Char('}'),
	lexer.TokenDollarOpenCurlyBraces: lexer.Char('}'),
}

// TokenStream is an immutable token sequence of one source unit with a
// cursor. The cursor is not clamped: any position outside the token range
// makes Valid report false.
type TokenStream struct {
	fileName string
	tokens   []lexer.Token
	pos      int
}

// New tokenizes source with the built-in PHP tokenizer
func New(source, fileName string) (*TokenStream, error) {
	return NewWithTokenizer(lexer.PHP{}, source, fileName)
}

// NewWithTokenizer normalizes line endings, tokenizes source and assigns
// the final token kinds and lines
func NewWithTokenizer(tokenizer lexer.Tokenizer, source, fileName string) (*TokenStream, error) {
	if tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer available", types.ErrMissingDependency)
	}

	raw, err := tokenizer.Tokenize(NormalizeLineEndings(source))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %s: %w", fileName, err)
	}

	tokens := make([]lexer.Token, len(raw))
	for i, tok := range raw {
		if tok.Kind == lexer.TokenString {
			if kind, ok := softKeywords[strings.ToLower(tok.Text)]; ok {
				tok.Kind = kind
			}
		}
		if tok.Line == 0 {
			tok.Line = 1
			if i > 0 {
				prev := tokens[i-1]
				tok.Line = prev.Line
				if multiline[prev.Kind] {
					tok.Line += strings.Count(prev.Text, "\n")
				}
			}
		}
		tokens[i] = tok
	}

	return &TokenStream{fileName: fileName, tokens: tokens}, nil
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF
func NormalizeLineEndings(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\r", "\n")
}

// FileName returns the canonical path or label the stream was created with
func (ts *TokenStream) FileName() string {
	return ts.fileName
}

// Len returns the number of tokens
func (ts *TokenStream) Len() int {
	return len(ts.tokens)
}

// Tokens returns a copy of the token sequence
func (ts *TokenStream) Tokens() []lexer.Token {
	out := make([]lexer.Token, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}

// At returns the token at pos
func (ts *TokenStream) At(pos int) (lexer.Token, error) {
	if pos < 0 || pos >= len(ts.tokens) {
		return lexer.Token{}, fmt.Errorf("%w: position %d of %d", types.ErrOutOfBounds, pos, len(ts.tokens))
	}
	return ts.tokens[pos], nil
}

// Set always fails: the stream is read-only
func (ts *TokenStream) Set(pos int, tok lexer.Token) error {
	return fmt.Errorf("%w: token streams are read-only", types.ErrUnsupported)
}

// Unset always fails: the stream is read-only
func (ts *TokenStream) Unset(pos int) error {
	return fmt.Errorf("%w: token streams are read-only", types.ErrUnsupported)
}

// Current returns the token under the cursor
func (ts *TokenStream) Current() (lexer.Token, bool) {
	if !ts.Valid() {
		return lexer.Token{}, false
	}
	return ts.tokens[ts.pos], true
}

// Valid reports whether the cursor is on a token
func (ts *TokenStream) Valid() bool {
	return ts.pos >= 0 && ts.pos < len(ts.tokens)
}

// Key returns the cursor position
func (ts *TokenStream) Key() int {
	return ts.pos
}

// Next advances the cursor by one
func (ts *TokenStream) Next() {
	ts.pos++
}

// Rewind moves the cursor to the first token
func (ts *TokenStream) Rewind() {
	ts.pos = 0
}

// Seek moves the cursor to pos without bounds checking
func (ts *TokenStream) Seek(pos int) {
	ts.pos = pos
}

// Type returns the kind of the current token, or 0 when the cursor is invalid
func (ts *TokenStream) Type() lexer.TokenKind {
	if !ts.Valid() {
		return 0
	}
	return ts.tokens[ts.pos].Kind
}

// TokenValue returns the text of the current token
func (ts *TokenStream) TokenValue() string {
	if !ts.Valid() {
		return ""
	}
	return ts.tokens[ts.pos].Text
}

// Line returns the line of the current token, or 0 when the cursor is invalid
func (ts *TokenStream) Line() int {
	if !ts.Valid() {
		return 0
	}
	return ts.tokens[ts.pos].Line
}

// Is reports whether the current token has one of the given kinds
func (ts *TokenStream) Is(kinds ...lexer.TokenKind) bool {
	current := ts.Type()
	for _, kind := range kinds {
		if current == kind {
			return true
		}
	}
	return false
}

// Find scans forward from the cursor, including the current token, for a
// token of the given kind. On failure the cursor is left where it was.
func (ts *TokenStream) Find(kind lexer.TokenKind) bool {
	start := ts.pos
	for ts.pos = max(ts.pos, 0); ts.pos < len(ts.tokens); ts.pos++ {
		if ts.tokens[ts.pos].Kind == kind {
			return true
		}
	}
	ts.pos = start
	return false
}

// FindMatchingBracket moves the cursor from an opening bracket to its
// matching closer. When the stream ends first the cursor is restored.
func (ts *TokenStream) FindMatchingBracket() (*TokenStream, error) {
	if !ts.Valid() {
		return nil, fmt.Errorf("%w: cursor %d is outside the stream", types.ErrOutOfBounds, ts.pos)
	}

	closer, ok := brackets[ts.tokens[ts.pos].Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no opening bracket at position %d", types.ErrNotFound, ts.pos)
	}

	start := ts.pos
	depth := 0
	for ; ts.pos < len(ts.tokens); ts.pos++ {
		kind := ts.tokens[ts.pos].Kind
		if c, isOpener := brackets[kind]; isOpener && c == closer {
			depth++
		} else if kind == closer {
			depth--
			if depth == 0 {
				return ts, nil
			}
		}
	}

	ts.pos = start
	return nil, fmt.Errorf("%w: bracket at position %d is never closed", types.ErrNotFound, start)
}

// SkipWhitespaces advances at least one position, then past any whitespace
// and comments. Doc comments are skipped only when docBlocks is set.
func (ts *TokenStream) SkipWhitespaces(docBlocks bool) *TokenStream {
	ts.pos++
	for ts.Valid() {
		switch ts.tokens[ts.pos].Kind {
		case lexer.TokenWhitespace, lexer.TokenComment:
		case lexer.TokenDocComment:
			if !docBlocks {
				return ts
			}
		default:
			return ts
		}
		ts.pos++
	}
	return ts
}

// SourcePart concatenates the text of tokens start through end inclusive.
// A negative end means the last token; out-of-range bounds are clamped.
func (ts *TokenStream) SourcePart(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < 0 || end >= len(ts.tokens) {
		end = len(ts.tokens) - 1
	}

	var sb strings.Builder
	for i := start; i <= end; i++ {
		sb.WriteString(ts.tokens[i].Text)
	}
	return sb.String()
}

// Source returns the full normalized source text
func (ts *TokenStream) Source() string {
	return ts.SourcePart(0, -1)
}

// TokenName returns the kind name of the token at pos, or "" when pos is
// out of range
func (ts *TokenStream) TokenName(pos int) string {
	if pos < 0 || pos >= len(ts.tokens) {
		return ""
	}
	return ts.tokens[pos].Kind.String()
}

// String returns the full source text
func (ts *TokenStream) String() string {
	return ts.Source()
}
