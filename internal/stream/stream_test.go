package stream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/phpreflect/internal/lexer"
	"github.com/dshills/phpreflect/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTokenizer struct {
	tokens []lexer.Token
	err    error
}

func (f fixedTokenizer) Tokenize(string) ([]lexer.Token, error) {
	return f.tokens, f.err
}

func mustStream(t *testing.T, src string) *TokenStream {
	t.Helper()
	ts, err := FromString(src, "test.php")
	require.NoError(t, err)
	return ts
}

func TestNew_SourceRoundTrip(t *testing.T) {
	sources := []string{
		"<?php\nnamespace App;\n\nclass User extends Model {\n    const A = 1;\n}\n",
		"<p><?= $x ?></p>\n<?php if ($a) { echo \"{$b} ${c}\"; }",
		"",
	}
	for _, src := range sources {
		ts := mustStream(t, src)
		assert.Equal(t, src, ts.SourcePart(0, ts.Len()-1))
		assert.Equal(t, src, ts.Source())
		assert.Equal(t, src, ts.String())
	}
}

func TestNew_NormalizesLineEndings(t *testing.T) {
	ts := mustStream(t, "<?php\r\n$a;\r$b;\r\n")
	assert.Equal(t, "<?php\n$a;\n$b;\n", ts.Source())

	last, err := ts.At(ts.Len() - 2)
	require.NoError(t, err)
	assert.Equal(t, ";", last.Text)
	assert.Equal(t, 3, last.Line)
}

func TestNew_MissingTokenizer(t *testing.T) {
	_, err := NewWithTokenizer(nil, "<?php", "x.php")
	assert.ErrorIs(t, err, types.ErrMissingDependency)
}

func TestNew_TokenizerFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewWithTokenizer(fixedTokenizer{err: boom}, "<?php", "x.php")
	assert.ErrorIs(t, err, boom)
}

func TestNew_SynthesizesCharLines(t *testing.T) {
	tk := fixedTokenizer{tokens: []lexer.Token{
		{Kind: lexer.Char('{'), Text: "{"},
		{Kind: lexer.TokenOpenTag, Text: "<?php\n", Line: 1},
		{Kind: lexer.TokenComment, Text: "/* a\nb */", Line: 2},
		{Kind: lexer.Char(';'), Text: ";"},
		{Kind: lexer.TokenString, Text: "x", Line: 3},
		{Kind: lexer.Char('('), Text: "("},
		{Kind: lexer.TokenConstantEncapsedString, Text: "'a\n\nb'", Line: 3},
		{Kind: lexer.Char(')'), Text: ")"},
	}}

	ts, err := NewWithTokenizer(tk, "", "x.php")
	require.NoError(t, err)

	lines := make([]int, ts.Len())
	for i, tok := range ts.Tokens() {
		lines[i] = tok.Line
	}
	assert.Equal(t, []int{1, 1, 2, 3, 3, 3, 3, 5}, lines)
}

func TestNew_LinesNeverDecrease(t *testing.T) {
	ts := mustStream(t, "<?php\n$a\n= [\n1,\n2\n];\n// c\n$b = (int) $a;\n")
	prev := 0
	for _, tok := range ts.Tokens() {
		assert.GreaterOrEqual(t, tok.Line, prev, "token %q", tok.Text)
		prev = tok.Line
	}

	require.True(t, ts.Find(lexer.Char('=')))
	assert.Equal(t, 3, ts.Line())
}

func TestNew_PromotesSoftKeywords(t *testing.T) {
	ts := mustStream(t, "<?php trait T { use A { foo insteadof B; } } CALLABLE __TRAIT__ traits")

	byText := map[string]lexer.TokenKind{}
	for _, tok := range ts.Tokens() {
		byText[tok.Text] = tok.Kind
	}
	assert.Equal(t, lexer.TokenTrait, byText["trait"])
	assert.Equal(t, lexer.TokenInsteadof, byText["insteadof"])
	assert.Equal(t, lexer.TokenCallable, byText["CALLABLE"])
	assert.Equal(t, lexer.TokenTraitC, byText["__TRAIT__"])
	assert.Equal(t, lexer.TokenString, byText["traits"])

	require.True(t, ts.Find(lexer.TokenTrait))
	assert.Equal(t, "T_TRAIT", ts.TokenName(ts.Key()))
}

func TestTokenStream_Navigation(t *testing.T) {
	ts := mustStream(t, "<?php $a;")

	assert.True(t, ts.Valid())
	assert.Equal(t, 0, ts.Key())
	assert.Equal(t, lexer.TokenOpenTag, ts.Type())

	ts.Next()
	tok, ok := ts.Current()
	require.True(t, ok)
	assert.Equal(t, "$a", tok.Text)
	assert.True(t, ts.Is(lexer.TokenString, lexer.TokenVariable))
	assert.Equal(t, "$a", ts.TokenValue())

	ts.Seek(100)
	assert.False(t, ts.Valid())
	_, ok = ts.Current()
	assert.False(t, ok)
	assert.Equal(t, lexer.TokenKind(0), ts.Type())
	assert.Equal(t, "", ts.TokenValue())

	ts.Seek(-1)
	assert.False(t, ts.Valid())

	ts.Rewind()
	assert.Equal(t, 0, ts.Key())
}

func TestTokenStream_At(t *testing.T) {
	ts := mustStream(t, "<?php $a;")

	tok, err := ts.At(1)
	require.NoError(t, err)
	assert.Equal(t, lexer.TokenVariable, tok.Kind)

	_, err = ts.At(ts.Len())
	assert.ErrorIs(t, err, types.ErrOutOfBounds)
	_, err = ts.At(-1)
	assert.ErrorIs(t, err, types.ErrOutOfBounds)
}

func TestTokenStream_Find(t *testing.T) {
	ts := mustStream(t, "<?php class A {} class B {}")

	require.True(t, ts.Find(lexer.TokenClass))
	first := ts.Key()

	// the current token counts as a match
	require.True(t, ts.Find(lexer.TokenClass))
	assert.Equal(t, first, ts.Key())

	ts.Next()
	require.True(t, ts.Find(lexer.TokenClass))
	assert.Greater(t, ts.Key(), first)

	pos := ts.Key()
	assert.False(t, ts.Find(lexer.TokenInterface))
	assert.Equal(t, pos, ts.Key())
}

func TestTokenStream_FindMatchingBracket(t *testing.T) {
	ts := mustStream(t, `<?php f(a, (b), [c]) { $x = "{$y}"; }`)

	t.Run("parenthesis", func(t *testing.T) {
		ts.Rewind()
		require.True(t, ts.Find(lexer.Char('(')))
		opener := ts.Key()

		got, err := ts.FindMatchingBracket()
		require.NoError(t, err)
		assert.Same(t, ts, got)
		assert.Equal(t, lexer.Char(')'), ts.Type())
		closer := ts.Key()

		ts.Seek(opener)
		_, err = ts.FindMatchingBracket()
		require.NoError(t, err)
		assert.Equal(t, closer, ts.Key())
		assert.Equal(t, "(a, (b), [c])", ts.SourcePart(opener, closer))
	})

	t.Run("curly with interpolation", func(t *testing.T) {
		ts.Rewind()
		require.True(t, ts.Find(lexer.Char('{')))
		_, err := ts.FindMatchingBracket()
		require.NoError(t, err)
		assert.Equal(t, ts.Len()-1, ts.Key())
	})

	t.Run("interpolation opener", func(t *testing.T) {
		ts.Rewind()
		require.True(t, ts.Find(lexer.TokenCurlyOpen))
		_, err := ts.FindMatchingBracket()
		require.NoError(t, err)
		assert.Equal(t, lexer.Char('}'), ts.Type())
		ts.Next()
		assert.Equal(t, lexer.Char('"'), ts.Type())
	})

	t.Run("not on opener", func(t *testing.T) {
		ts.Rewind()
		_, err := ts.FindMatchingBracket()
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		ts.Seek(-1)
		_, err := ts.FindMatchingBracket()
		assert.ErrorIs(t, err, types.ErrOutOfBounds)
	})
}

func TestTokenStream_FindMatchingBracket_Unclosed(t *testing.T) {
	ts := mustStream(t, "<?php f(a, (b);")
	require.True(t, ts.Find(lexer.Char('(')))
	pos := ts.Key()

	_, err := ts.FindMatchingBracket()
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, pos, ts.Key())
}

func TestTokenStream_SkipWhitespaces(t *testing.T) {
	ts := mustStream(t, "<?php /** doc */ /* c */ $a")

	ts.Rewind()
	ts.SkipWhitespaces(false)
	assert.Equal(t, lexer.TokenDocComment, ts.Type())

	ts.Rewind()
	ts.SkipWhitespaces(true)
	assert.Equal(t, lexer.TokenVariable, ts.Type())

	// always advances at least once
	pos := ts.Key()
	ts.SkipWhitespaces(true)
	assert.Equal(t, pos+1, ts.Key())
	assert.False(t, ts.Valid())
}

func TestTokenStream_SourcePart(t *testing.T) {
	ts := mustStream(t, "<?php $a = 1;")

	assert.Equal(t, "$a", ts.SourcePart(1, 1))
	assert.Equal(t, "$a = 1;", ts.SourcePart(1, -1))
	assert.Equal(t, "<?php $a", ts.SourcePart(-5, 1))
	assert.Equal(t, "", ts.SourcePart(3, 2))
}

func TestTokenStream_TokenName(t *testing.T) {
	ts := mustStream(t, "<?php $a;")

	assert.Equal(t, "T_OPEN_TAG", ts.TokenName(0))
	assert.Equal(t, "T_VARIABLE", ts.TokenName(1))
	assert.Equal(t, ";", ts.TokenName(2))
	assert.Equal(t, "", ts.TokenName(3))
}

func TestTokenStream_ReadOnly(t *testing.T) {
	ts := mustStream(t, "<?php $a;")

	assert.ErrorIs(t, ts.Set(0, lexer.Token{}), types.ErrUnsupported)
	assert.ErrorIs(t, ts.Unset(0), types.ErrUnsupported)
	assert.Equal(t, "<?php $a;", ts.Source())
}

func TestTokenStream_TokensIsCopy(t *testing.T) {
	ts := mustStream(t, "<?php $a;")

	tokens := ts.Tokens()
	tokens[1].Text = "$changed"
	assert.Equal(t, "<?php $a;", ts.Source())
}

func TestSerialize_RoundTrip(t *testing.T) {
	ts := mustStream(t, "<?php\n/** doc */\nclass A { public function f() { return \"x $y\"; } }\n")
	ts.Seek(3)

	data, err := ts.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, ts.FileName(), restored.FileName())
	assert.Equal(t, ts.Tokens(), restored.Tokens())
	assert.Equal(t, 0, restored.Key())
}

func TestDeserialize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"empty record", "[]"},
		{"one field", `["a.php"]`},
		{"three fields", `["a.php", [], 1]`},
		{"file name type", `[1, []]`},
		{"token list type", `["a.php", {}]`},
		{"token arity", `["a.php", [[300, "x"]]]`},
		{"kind type", `["a.php", [["x", "y", 1]]]`},
		{"unknown kind", `["a.php", [[9999, "x", 1]]]`},
		{"text type", `["a.php", [[300, 5, 1]]]`},
		{"line type", `["a.php", [[300, "x", "1"]]]`},
		{"negative line", `["a.php", [[300, "x", -1]]]`},
		{"zero line", `["a.php", [[300, "x", 0]]]`},
		{"null record", `null`},
		{"null file name", `[null, []]`},
		{"null token list", `["a.php", null]`},
		{"null token", `["a.php", [null]]`},
		{"null kind", `["a.php", [[null, "x", 1]]]`},
		{"null text", `["a.php", [[300, null, 1]]]`},
		{"null line", `["a.php", [[300, "x", null]]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.data))
			assert.ErrorIs(t, err, types.ErrSerialization)
		})
	}
}

func TestFromFile(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(dir, "a.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php\r\nclass A {}\r\n"), 0644))

	ts, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, ts.FileName())
	assert.Equal(t, "<?php\nclass A {}\n", ts.Source())

	t.Run("relative segments and symlinks", func(t *testing.T) {
		link := filepath.Join(dir, "link.php")
		require.NoError(t, os.Symlink(path, link))

		ts, err := FromFile(filepath.Join(dir, "sub", "..", "link.php"))
		require.NoError(t, err)
		assert.Equal(t, path, ts.FileName())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromFile(filepath.Join(dir, "missing.php"))
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := FromFile(dir)
		assert.ErrorIs(t, err, types.ErrNotReadable)
	})
}
